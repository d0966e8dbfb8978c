// Package audit writes one structured record per state change made through
// the API. Records go to the process logger under log=audit so they can be
// shipped and filtered separately from request logs.
package audit

import (
	"context"
	"log/slog"
	"sort"
)

type Event struct {
	ActorID    int64
	Action     string
	EntityType string
	EntityID   int64
	RequestID  string
	IP         string
	// Details carries small summaries such as cascade counts. Never secrets.
	Details map[string]any
}

type Recorder struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger.With("log", "audit")}
}

func (r *Recorder) Record(ctx context.Context, evt Event) {
	attrs := []slog.Attr{
		slog.Int64("actorId", evt.ActorID),
		slog.String("action", evt.Action),
		slog.String("entityType", evt.EntityType),
		slog.Int64("entityId", evt.EntityID),
	}
	if evt.RequestID != "" {
		attrs = append(attrs, slog.String("requestId", evt.RequestID))
	}
	if evt.IP != "" {
		attrs = append(attrs, slog.String("ip", evt.IP))
	}
	if len(evt.Details) > 0 {
		keys := make([]string, 0, len(evt.Details))
		for k := range evt.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		details := make([]any, 0, len(keys))
		for _, k := range keys {
			details = append(details, slog.Any(k, evt.Details[k]))
		}
		attrs = append(attrs, slog.Group("details", details...))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "audit "+evt.Action, attrs...)
}

// Record writes evt through the default logger.
func Record(ctx context.Context, evt Event) {
	New(slog.Default()).Record(ctx, evt)
}
