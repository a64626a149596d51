package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChatReturnsDecisionIDFromHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat" {
			t.Errorf("path = %q, want /api/v1/chat", r.URL.Path)
		}
		w.Header().Set("X-Decision-ID", "dec-42")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"session_id": "s1",
			"response": "Hi!",
			"model_used": "edge-slm",
			"routing_reason": "low complexity",
			"latency": 50000000,
			"cache_hit": false,
			"timestamp": "2025-06-01T12:00:00Z",
			"message_count": 2
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1", "")
	res, err := c.Chat(context.Background(), ChatRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.DecisionID != "dec-42" {
		t.Fatalf("DecisionID = %q, want dec-42", res.DecisionID)
	}
	if res.Response.SessionID != "s1" {
		t.Fatalf("SessionID = %q, want s1", res.Response.SessionID)
	}
	if res.Response.Latency != 50*time.Millisecond {
		t.Fatalf("Latency = %v, want 50ms", res.Response.Latency)
	}
}

func TestChatMissingDecisionHeaderIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"session_id": "s1", "response": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1", "")
	res, err := c.Chat(context.Background(), ChatRequest{Message: "Hello"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.DecisionID != "" {
		t.Fatalf("DecisionID = %q, want empty", res.DecisionID)
	}
}

func TestErrorBodyMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantKnd ErrorKind
	}{
		{"backend error field", http.StatusBadRequest, `{"error": "query too long"}`, "query too long", KindBadRequest},
		{"backend message field", http.StatusInternalServerError, `{"message": "routing engine down"}`, "routing engine down", KindServer},
		{"non-json body", http.StatusBadGateway, "upstream exploded", "chat request failed", KindServer},
		{"empty body", http.StatusUnauthorized, "", "chat request failed", KindUnauthorized},
		{"rate limited", http.StatusTooManyRequests, `{}`, "chat request failed", KindRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL+"/api/v1", "")
			_, err := c.Chat(context.Background(), ChatRequest{Message: "x"})
			if err == nil {
				t.Fatal("expected error")
			}

			var re *RequestError
			if !errors.As(err, &re) {
				t.Fatalf("error type = %T, want *RequestError", err)
			}
			if re.Message != tt.wantMsg {
				t.Fatalf("Message = %q, want %q", re.Message, tt.wantMsg)
			}
			if re.Kind != tt.wantKnd {
				t.Fatalf("Kind = %v, want %v", re.Kind, tt.wantKnd)
			}
			if re.Status != tt.status {
				t.Fatalf("Status = %d, want %d", re.Status, tt.status)
			}
		})
	}
}

func TestNetworkFailureHasZeroStatus(t *testing.T) {
	// Point at a closed server so the dial fails.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL+"/api/v1", "")
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if re.Status != 0 || re.Kind != KindNetwork {
		t.Fatalf("Status = %d, Kind = %v, want 0 and network", re.Status, re.Kind)
	}
}

func TestIsUnauthorizedMatchesAuthFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"unauthorized", http.StatusUnauthorized, true},
		{"forbidden", http.StatusForbidden, true},
		{"not found", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL+"/api/v1", "")
			_, err := c.Chat(context.Background(), ChatRequest{Message: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsUnauthorized(err); got != tt.want {
				t.Fatalf("IsUnauthorized = %v, want %v", got, tt.want)
			}
			// Commands wrap client errors before they reach Execute.
			wrapped := fmt.Errorf("checking auth: %w", err)
			if got := IsUnauthorized(wrapped); got != tt.want {
				t.Fatalf("IsUnauthorized(wrapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActiveABTestNotFoundMeansNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "no active test"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1", "")
	cfg, err := c.ActiveABTest(context.Background())
	if err != nil {
		t.Fatalf("ActiveABTest: %v", err)
	}
	if cfg != nil {
		t.Fatalf("cfg = %+v, want nil", cfg)
	}
}

func TestActiveABTestReturnsActiveConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "t1", "name": "ml-vs-rules", "traffic_split": 0.5, "is_active": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1", "")
	cfg, err := c.ActiveABTest(context.Background())
	if err != nil {
		t.Fatalf("ActiveABTest: %v", err)
	}
	if cfg == nil || !cfg.IsActive {
		t.Fatalf("cfg = %+v, want active config", cfg)
	}
	if cfg.TrafficSplit != 0.5 {
		t.Fatalf("TrafficSplit = %v, want 0.5", cfg.TrafficSplit)
	}
}

func TestSessionCookieAttached(t *testing.T) {
	var gotCookie string
	var healthCookie *string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("hlm_session")
		switch r.URL.Path {
		case "/api/v1/health":
			if err == nil {
				v := ck.Value
				healthCookie = &v
			}
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		default:
			if err == nil {
				gotCookie = ck.Value
			}
			_, _ = w.Write([]byte(`{"user": {"id": "u1", "email": "a@b.c"}}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1", "secret-cookie")
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotCookie != "secret-cookie" {
		t.Fatalf("session cookie = %q, want secret-cookie", gotCookie)
	}

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if healthCookie != nil {
		t.Fatalf("health carried credential %q, want none", *healthCookie)
	}
}

func TestDeleteSessionEscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v1", "")
	if err := c.DeleteSession(context.Background(), "s/1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if gotPath != "/api/v1/chat/sessions/s%2F1" {
		t.Fatalf("path = %q, want escaped id", gotPath)
	}
}
