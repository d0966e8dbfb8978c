package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"workforce/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func (e envelope) code() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Code
}

func (e envelope) hasField(field string) bool {
	if e.Error == nil {
		return false
	}
	for _, f := range e.Error.Details.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return config.Config{
		DatabaseURL:       dbURL,
		JWTSecret:         "handlers-test-secret-0123456789abcdef",
		JWTIssuer:         "workforce",
		TokenTTL:          time.Hour,
		BcryptCost:        4,
		DataEncryptionKey: "0123456789abcdef0123456789abcdef",
		Environment:       "test",
		AllowSelfSignup:   true,
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "ChangeMe123!",
		RunMigrations:     true,
		RunSeed:           true,
		MaxBodyBytes:      1048576,
		LoginRateLimit:    "1000-M",
		MetricsEnabled:    true,
	}
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func send(t *testing.T, client *http.Client, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp, raw
}

// call sends a JSON request, checks the status and decodes data into out
// when out is non-nil.
func call(t *testing.T, client *http.Client, method, url, token string, body any, want int, out any) envelope {
	t.Helper()
	resp, raw := send(t, client, method, url, token, body)
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, url, want, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return env
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	var session struct {
		Token string `json:"token"`
	}
	call(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK, &session)
	if session.Token == "" {
		t.Fatal("expected token")
	}
	return session.Token
}

type createdEmployee struct {
	Employee struct {
		ID           int64  `json:"id"`
		AccountID    int64  `json:"accountId"`
		DepartmentID *int64 `json:"departmentId"`
	} `json:"employee"`
	TemporaryPassword string `json:"temporaryPassword"`
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token string, body map[string]any) createdEmployee {
	t.Helper()
	var created createdEmployee
	call(t, client, http.MethodPost, baseURL+"/api/v1/employees", token, body, http.StatusCreated, &created)
	if created.Employee.ID == 0 || created.Employee.AccountID == 0 {
		t.Fatalf("expected employee and account ids, got %+v", created)
	}
	return created
}
