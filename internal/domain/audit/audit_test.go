package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestRecordWritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	rec := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	rec.Record(context.Background(), Event{
		ActorID:    1,
		Action:     "employee.delete",
		EntityType: "employee",
		EntityID:   42,
		RequestID:  "req-9",
		IP:         "203.0.113.5",
		Details:    map[string]any{"payroll": 3, "reviews": 2},
	})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	checks := map[string]any{
		"msg":        "audit employee.delete",
		"log":        "audit",
		"action":     "employee.delete",
		"entityType": "employee",
		"entityId":   float64(42),
		"actorId":    float64(1),
		"requestId":  "req-9",
		"ip":         "203.0.113.5",
	}
	for key, want := range checks {
		if line[key] != want {
			t.Fatalf("%s: expected %v, got %v", key, want, line[key])
		}
	}
	details, ok := line["details"].(map[string]any)
	if !ok || details["payroll"] != float64(3) || details["reviews"] != float64(2) {
		t.Fatalf("unexpected details %v", line["details"])
	}
}

func TestRecordOmitsEmptyOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	New(slog.New(slog.NewJSONHandler(&buf, nil))).Record(context.Background(), Event{Action: "department.create", EntityType: "department", EntityID: 7})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"requestId", "ip", "details"} {
		if _, ok := line[key]; ok {
			t.Fatalf("expected %s to be omitted", key)
		}
	}
}
