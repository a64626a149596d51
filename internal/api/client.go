// Package api provides the HTTP client for the HybridLM routing backend.
// It is the sole egress point of the program: every backend call goes
// through Client, which attaches the ambient session credential, decodes
// JSON, and normalizes failures into RequestError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080/api/v1"
	requestTimeout = 60 * time.Second
	maxBodySize    = 4 << 20 // 4 MB

	// decisionHeader carries the out-of-band routing decision id on
	// inference and chat responses.
	decisionHeader = "X-Decision-ID"

	// sessionCookie is the ambient credential cookie name.
	sessionCookie = "hlm_session"
)

// Client talks to the HybridLM backend. Each call is independent:
// no retries, no caching, no deduplication.
type Client struct {
	baseURL string
	session string
	http    *http.Client
}

// NewClient creates a client for the given base URL (origin + /api/v1)
// and session cookie value. An empty baseURL falls back to the default
// local backend; an empty session sends unauthenticated requests.
func NewClient(baseURL, session string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		session: strings.TrimSpace(session),
		http:    &http.Client{},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Inference runs a single-shot routed query.
func (c *Client) Inference(ctx context.Context, req InferenceRequest) (*InferenceResult, error) {
	var resp InferenceResponse
	hdr, err := c.do(ctx, http.MethodPost, "/inference", req, &resp, callOpts{op: "inference", fallback: "inference request failed"})
	if err != nil {
		return nil, err
	}
	return &InferenceResult{Response: resp, DecisionID: hdr.Get(decisionHeader)}, nil
}

// Chat sends one conversation turn. Leave req.SessionID empty to start
// a new session; the backend assigns one and returns it in the body.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	var resp ChatResponse
	hdr, err := c.do(ctx, http.MethodPost, "/chat", req, &resp, callOpts{op: "chat", fallback: "chat request failed"})
	if err != nil {
		return nil, err
	}
	return &ChatResult{Response: resp, DecisionID: hdr.Get(decisionHeader)}, nil
}

// GetSession fetches the canonical contents of a server-held session.
func (c *Client) GetSession(ctx context.Context, id string) (*ChatSession, error) {
	var sess ChatSession
	_, err := c.do(ctx, http.MethodGet, "/chat/sessions/"+url.PathEscape(id), nil, &sess, callOpts{op: "get session", fallback: "failed to get session"})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a server-held session. Idempotent from the
// client's point of view.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/chat/sessions/"+url.PathEscape(id), nil, nil, callOpts{op: "delete session", fallback: "failed to delete session"})
	return err
}

// ListSessions fetches the session listing for the current user.
func (c *Client) ListSessions(ctx context.Context) (*SessionList, error) {
	var list SessionList
	_, err := c.do(ctx, http.MethodGet, "/chat/sessions", nil, &list, callOpts{op: "list sessions", fallback: "failed to list sessions"})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// SubmitFeedback attaches feedback to a prior routing decision.
// Idempotency across repeat submissions is the backend's concern.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	_, err := c.do(ctx, http.MethodPost, "/feedback", req, &resp, callOpts{op: "feedback", fallback: "failed to submit feedback"})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetDecision fetches the full routing decision record for an id.
func (c *Client) GetDecision(ctx context.Context, id string) (*Decision, error) {
	var d Decision
	_, err := c.do(ctx, http.MethodGet, "/decisions/"+url.PathEscape(id), nil, &d, callOpts{op: "get decision", fallback: "failed to get decision"})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateABTest starts a new routing experiment.
func (c *Client) CreateABTest(ctx context.Context, req CreateABTestRequest) (*ABTestConfig, error) {
	var cfg ABTestConfig
	_, err := c.do(ctx, http.MethodPost, "/ab-tests", req, &cfg, callOpts{op: "create ab test", fallback: "failed to create A/B test"})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ActiveABTest fetches the currently active experiment. A 404 is the
// normal "no active test" state and resolves to (nil, nil), not an
// error; every other failure is surfaced as usual.
func (c *Client) ActiveABTest(ctx context.Context) (*ABTestConfig, error) {
	var cfg ABTestConfig
	_, err := c.do(ctx, http.MethodGet, "/ab-tests/active", nil, &cfg, callOpts{op: "active ab test", fallback: "failed to get active A/B test"})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// EndABTest stops a running experiment.
func (c *Client) EndABTest(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/ab-tests/"+url.PathEscape(id)+"/end", nil, nil, callOpts{op: "end ab test", fallback: "failed to end A/B test"})
	return err
}

// ABTestMetrics fetches per-group experiment metrics. group filters to
// one group when non-empty.
func (c *Client) ABTestMetrics(ctx context.Context, group string) ([]ABGroupMetrics, error) {
	path := "/ab-tests/metrics"
	if group != "" {
		path += "?group=" + url.QueryEscape(group)
	}
	var metrics []ABGroupMetrics
	_, err := c.do(ctx, http.MethodGet, path, nil, &metrics, callOpts{op: "ab test metrics", fallback: "failed to get A/B test metrics"})
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

// TrainModel triggers a routing classifier training run and returns
// the synchronous result. The client assumes nothing beyond what the
// response body reports; there is no progress polling.
func (c *Client) TrainModel(ctx context.Context) (*TrainingResult, error) {
	var res TrainingResult
	_, err := c.do(ctx, http.MethodPost, "/ml/train", nil, &res, callOpts{op: "train model", fallback: "failed to train model"})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Login requests the OAuth redirect URL. Navigating there is the
// caller's job; the transport's ends at obtaining the URL.
func (c *Client) Login(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	_, err := c.do(ctx, http.MethodGet, "/auth/login", nil, &resp, callOpts{op: "login", fallback: "login failed"})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// Me returns the currently authenticated user. Any non-2xx response
// means unauthenticated; callers treat the error accordingly.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	_, err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp, callOpts{op: "me", fallback: "not authenticated"})
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout terminates the backend session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, callOpts{op: "logout", fallback: "logout failed"})
	return err
}

// Health probes the backend without credentials.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var hs HealthStatus
	_, err := c.do(ctx, http.MethodGet, "/health", nil, &hs, callOpts{op: "health", fallback: "health check failed", noAuth: true})
	if err != nil {
		return nil, err
	}
	return &hs, nil
}

type callOpts struct {
	op       string
	fallback string
	noAuth   bool
}

// do performs one JSON round trip. body is marshaled when non-nil, out
// is decoded into when non-nil. The response header set is returned so
// callers can read out-of-band values like the decision id.
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts callOpts) (http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Op: opts.op, Kind: KindNetwork, Message: opts.fallback, Err: fmt.Errorf("encoding request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &RequestError{Op: opts.op, Kind: KindNetwork, Message: opts.fallback, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" && !opts.noAuth {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Op: opts.op, Kind: KindNetwork, Message: opts.fallback, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RequestError{Op: opts.op, Kind: KindNetwork, Message: opts.fallback, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Op:      opts.op,
			Status:  resp.StatusCode,
			Kind:    kindForStatus(resp.StatusCode),
			Message: errorMessage(data, opts.fallback),
		}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, &RequestError{Op: opts.op, Status: resp.StatusCode, Kind: KindServer, Message: opts.fallback, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}

	return resp.Header, nil
}

// errorMessage extracts the backend's error text from a JSON error
// body, falling back to the per-operation message.
func errorMessage(body []byte, fallback string) string {
	var eb struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return fallback
}
