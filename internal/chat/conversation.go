// Package chat maintains one active conversation's message log and
// derived stats, synchronized with the backend's session model.
//
// Network calls run outside the container (the TUI issues them from
// Bubble Tea commands, CLI commands issue them inline), so every
// operation is split into a Begin step that records intent and a
// Finish step that validates the result still applies before touching
// state. Superseding actions (new chat, session switch, delete) bump
// an epoch instead of cancelling in-flight requests; a Finish carrying
// an outdated epoch or load target is discarded.
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/Wanderer0074348/hlm/internal/api"
)

// ErrSendPending is returned by BeginSend while a previous send for
// this conversation has not finished. The input control is expected to
// stay disabled until the pending send resolves.
var ErrSendPending = errors.New("chat: send already in flight")

// Message is one entry of the local message log.
type Message struct {
	Role      api.Role
	Content   string
	Timestamp time.Time
	Meta      *Metadata // assistant messages only, never user messages
}

// Metadata is the routing metadata shown alongside assistant replies.
type Metadata struct {
	ModelUsed     string
	RoutingReason string
	Latency       time.Duration
	CacheHit      bool
	CostMetrics   *api.CostMetrics
	DecisionID    string
}

// Stats are the derived conversation statistics. TotalTokens,
// AvgLatency, and CacheHits cover the responses observed in this
// client lifetime and reset when a session is (re)loaded; Messages is
// the server's authoritative count.
type Stats struct {
	Messages    int
	TotalTokens int64
	AvgLatency  time.Duration
	CacheHits   int
}

// AvgLatencySeconds returns the mean latency in seconds for display.
// The backend reports latency in nanoseconds.
func (s Stats) AvgLatencySeconds() float64 {
	return s.AvgLatency.Seconds()
}

// SendAttempt is the token returned by BeginSend. It pins the
// conversation identity the eventual result must match.
type SendAttempt struct {
	epoch     int
	sessionID string
	message   string
}

// Request builds the chat request for this attempt. SessionID is empty
// on the first turn of a new conversation.
func (a SendAttempt) Request() api.ChatRequest {
	return api.ChatRequest{SessionID: a.sessionID, Message: a.message}
}

// Conversation is the chat state container. The zero value is not
// usable; construct with New.
type Conversation struct {
	mu sync.Mutex

	sessionID  string
	epoch      int // bumped by Reset and applied loads; invalidates stale finishes
	pending    bool
	loading    bool
	loadTarget string // most recently requested session id

	messages     []Message
	window       []api.ChatResponse // responses observed since last reset/load
	serverCount  int
	loadedTokens int64 // session total_tokens from the last load, until a send arrives

	onSessionChange func(string)
	onResponse      func(api.ChatResponse)
}

// New creates an empty conversation with no session.
func New() *Conversation {
	return &Conversation{}
}

// OnSessionChange registers the listener notified when the backend
// assigns a session id to a fresh conversation. Called at most once
// per assignment, outside the container's lock.
func (c *Conversation) OnSessionChange(fn func(sessionID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSessionChange = fn
}

// OnResponse registers a sink for every confirmed chat response,
// e.g. the local analytics history.
func (c *Conversation) OnResponse(fn func(api.ChatResponse)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResponse = fn
}

// BeginSend appends the optimistic user message and returns the
// attempt token. Refuses a second in-flight send.
func (c *Conversation) BeginSend(text string) (SendAttempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending {
		return SendAttempt{}, ErrSendPending
	}

	c.messages = append(c.messages, Message{
		Role:      api.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	})
	c.pending = true

	return SendAttempt{epoch: c.epoch, sessionID: c.sessionID, message: text}, nil
}

// FinishSend applies the outcome of the network call for attempt.
// Results for a superseded conversation identity are discarded whole:
// the reset that superseded them already removed the optimistic
// message. On failure the optimistic message is removed and the error
// returned for display; the session id is never touched. On success
// the assistant message is appended and, for a fresh conversation, the
// server-assigned session id adopted exactly once.
func (c *Conversation) FinishSend(attempt SendAttempt, res *api.ChatResult, sendErr error) error {
	c.mu.Lock()

	if attempt.epoch != c.epoch {
		c.mu.Unlock()
		return nil
	}
	c.pending = false

	if sendErr != nil {
		// Drop the optimistic user turn: the log must never retain an
		// unconfirmed user message after a failure.
		if n := len(c.messages); n > 0 && c.messages[n-1].Role == api.RoleUser {
			c.messages = c.messages[:n-1]
		}
		c.mu.Unlock()
		return sendErr
	}

	resp := res.Response

	var adopted string
	if c.sessionID == "" {
		c.sessionID = resp.SessionID
		adopted = resp.SessionID
	}

	c.messages = append(c.messages, Message{
		Role:      api.RoleAssistant,
		Content:   resp.Response,
		Timestamp: resp.Timestamp,
		Meta: &Metadata{
			ModelUsed:     resp.ModelUsed,
			RoutingReason: resp.RoutingReason,
			Latency:       resp.Latency,
			CacheHit:      resp.CacheHit,
			CostMetrics:   resp.CostMetrics,
			DecisionID:    res.DecisionID,
		},
	})
	c.window = append(c.window, resp)
	c.serverCount = resp.MessageCount

	notifySession := c.onSessionChange
	notifyResponse := c.onResponse
	c.mu.Unlock()

	if adopted != "" && notifySession != nil {
		notifySession(adopted)
	}
	if notifyResponse != nil {
		notifyResponse(resp)
	}
	return nil
}

// BeginLoad marks id as the session whose contents the caller is about
// to fetch. Only the result matching the most recent BeginLoad is
// applied; responses for earlier targets are discarded on arrival.
func (c *Conversation) BeginLoad(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadTarget = id
	c.loading = true
}

// FinishLoad applies a fetched session. It reports whether the result
// was applied; stale results (target changed, or cleared by Reset)
// are dropped without error. A failed load leaves the previous view
// intact and returns the error.
func (c *Conversation) FinishLoad(id string, sess *api.ChatSession, loadErr error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.loadTarget {
		return false, nil
	}
	c.loading = false

	if loadErr != nil {
		return false, loadErr
	}

	// Wholesale replacement: never merge server content with whatever
	// the log held before.
	msgs := make([]Message, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		msg := Message{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp}
		if m.Role == api.RoleAssistant && m.Metadata != nil {
			msg.Meta = &Metadata{
				ModelUsed:     m.Metadata.ModelUsed,
				RoutingReason: m.Metadata.RoutingReason,
				Latency:       m.Metadata.Latency,
				CacheHit:      m.Metadata.CacheHit,
				CostMetrics:   m.Metadata.CostMetrics,
				DecisionID:    m.Metadata.DecisionID,
			}
		}
		msgs = append(msgs, msg)
	}

	c.epoch++
	c.pending = false
	c.sessionID = sess.SessionID
	c.messages = msgs
	c.window = nil
	c.serverCount = sess.MessageCount
	c.loadedTokens = sess.TotalTokens

	return true, nil
}

// Reset clears the conversation to a fresh, sessionless state. Pending
// sends and loads from the previous identity cannot repopulate state
// afterwards.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Conversation) resetLocked() {
	c.epoch++
	c.pending = false
	c.loading = false
	c.loadTarget = ""
	c.sessionID = ""
	c.messages = nil
	c.window = nil
	c.serverCount = 0
	c.loadedTokens = 0
}

// SessionDeleted reacts to a confirmed backend deletion: deleting the
// active session behaves as Reset, deleting any other is a no-op here.
func (c *Conversation) SessionDeleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != "" && id == c.sessionID {
		c.resetLocked()
	}
}

// SessionID returns the current session identifier, empty for a fresh
// conversation. Once assigned it is immutable until Reset.
func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Pending reports whether a send is in flight.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Loading reports whether a session load is in flight.
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Messages returns a copy of the message log.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Stats recomputes the derived statistics from current state.
func (c *Conversation) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Messages: c.serverCount}

	if len(c.window) == 0 {
		s.TotalTokens = c.loadedTokens
		return s
	}

	var totalLatency time.Duration
	for _, r := range c.window {
		totalLatency += r.Latency
		if r.CacheHit {
			s.CacheHits++
		}
		if r.CostMetrics != nil {
			s.TotalTokens += r.CostMetrics.TotalTokens
		}
	}
	s.AvgLatency = totalLatency / time.Duration(len(c.window))
	return s
}
