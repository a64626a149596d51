package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/Wanderer0074348/hlm/internal/api"
)

func helloResult() *api.ChatResult {
	return &api.ChatResult{
		Response: api.ChatResponse{
			SessionID:     "s1",
			Response:      "Hi!",
			ModelUsed:     "edge-slm",
			RoutingReason: "low complexity",
			Latency:       50 * time.Millisecond,
			CacheHit:      false,
			Timestamp:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			MessageCount:  2,
		},
		DecisionID: "dec-1",
	}
}

func TestFirstSendAdoptsSessionAndComputesStats(t *testing.T) {
	c := New()

	var changes []string
	c.OnSessionChange(func(id string) { changes = append(changes, id) })

	at, err := c.BeginSend("Hello")
	if err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	if got := at.Request(); got.SessionID != "" || got.Message != "Hello" {
		t.Fatalf("Request() = %+v, want empty session and message Hello", got)
	}

	if err := c.FinishSend(at, helloResult(), nil); err != nil {
		t.Fatalf("FinishSend: %v", err)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != api.RoleUser || msgs[0].Content != "Hello" {
		t.Fatalf("first message = %+v, want user Hello", msgs[0])
	}
	if msgs[0].Meta != nil {
		t.Fatal("user message carries metadata")
	}
	if msgs[1].Role != api.RoleAssistant || msgs[1].Content != "Hi!" {
		t.Fatalf("second message = %+v, want assistant Hi!", msgs[1])
	}
	if msgs[1].Meta == nil || msgs[1].Meta.DecisionID != "dec-1" {
		t.Fatalf("assistant metadata = %+v, want decision id dec-1", msgs[1].Meta)
	}

	if got := c.SessionID(); got != "s1" {
		t.Fatalf("SessionID = %q, want s1", got)
	}
	if len(changes) != 1 || changes[0] != "s1" {
		t.Fatalf("session change notifications = %v, want exactly [s1]", changes)
	}

	st := c.Stats()
	if st.Messages != 2 {
		t.Fatalf("Stats.Messages = %d, want 2", st.Messages)
	}
	if got := st.AvgLatencySeconds(); got != 0.05 {
		t.Fatalf("AvgLatencySeconds = %v, want 0.05", got)
	}
}

func TestSecondSendDoesNotRenotifySessionChange(t *testing.T) {
	c := New()
	notifications := 0
	c.OnSessionChange(func(string) { notifications++ })

	at, _ := c.BeginSend("Hello")
	_ = c.FinishSend(at, helloResult(), nil)

	at2, err := c.BeginSend("again")
	if err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	if got := at2.Request().SessionID; got != "s1" {
		t.Fatalf("second request session = %q, want s1", got)
	}
	res := helloResult()
	res.Response.MessageCount = 4
	_ = c.FinishSend(at2, res, nil)

	if notifications != 1 {
		t.Fatalf("notifications = %d, want 1", notifications)
	}
}

func TestFailedSendRollsBackOptimisticMessage(t *testing.T) {
	c := New()
	at, _ := c.BeginSend("Hello")
	_ = c.FinishSend(at, helloResult(), nil)

	before := c.Messages()

	at2, _ := c.BeginSend("doomed")
	sendErr := errors.New("backend down")
	if err := c.FinishSend(at2, nil, sendErr); !errors.Is(err, sendErr) {
		t.Fatalf("FinishSend error = %v, want %v", err, sendErr)
	}

	after := c.Messages()
	if len(after) != len(before) {
		t.Fatalf("log has %d messages after failure, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].Content != before[i].Content {
			t.Fatalf("message %d changed after failed send", i)
		}
	}
	if got := c.SessionID(); got != "s1" {
		t.Fatalf("SessionID = %q after failure, want unchanged s1", got)
	}
	if c.Pending() {
		t.Fatal("still pending after failed send")
	}
}

func TestBeginSendRefusesConcurrentSend(t *testing.T) {
	c := New()
	if _, err := c.BeginSend("one"); err != nil {
		t.Fatalf("BeginSend: %v", err)
	}
	if _, err := c.BeginSend("two"); !errors.Is(err, ErrSendPending) {
		t.Fatalf("second BeginSend error = %v, want ErrSendPending", err)
	}
}

func TestStaleLoadDiscarded(t *testing.T) {
	c := New()

	sessA := &api.ChatSession{
		SessionID:    "A",
		Messages:     []api.SessionMessage{{Role: api.RoleUser, Content: "from A"}},
		MessageCount: 1,
		TotalTokens:  10,
	}
	sessB := &api.ChatSession{
		SessionID:    "B",
		Messages:     []api.SessionMessage{{Role: api.RoleUser, Content: "from B"}},
		MessageCount: 1,
		TotalTokens:  20,
	}

	// A requested, then superseded by B before A's response arrives.
	c.BeginLoad("A")
	c.BeginLoad("B")

	applied, err := c.FinishLoad("B", sessB, nil)
	if err != nil || !applied {
		t.Fatalf("FinishLoad(B) = (%v, %v), want applied", applied, err)
	}

	applied, err = c.FinishLoad("A", sessA, nil)
	if err != nil {
		t.Fatalf("FinishLoad(A): %v", err)
	}
	if applied {
		t.Fatal("stale load A overwrote state produced by B")
	}

	if got := c.SessionID(); got != "B" {
		t.Fatalf("SessionID = %q, want B", got)
	}
	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Content != "from B" {
		t.Fatalf("messages = %+v, want the B content", msgs)
	}
	if st := c.Stats(); st.TotalTokens != 20 {
		t.Fatalf("TotalTokens = %d, want 20 from session B", st.TotalTokens)
	}
}

func TestLoadingTracksInFlightFetch(t *testing.T) {
	c := New()
	if c.Loading() {
		t.Fatal("fresh conversation reports a load in flight")
	}

	c.BeginLoad("A")
	if !c.Loading() {
		t.Fatal("Loading = false after BeginLoad")
	}

	// A result for a superseded target must not clear the flag for
	// the live one.
	c.BeginLoad("B")
	if _, err := c.FinishLoad("A", nil, errors.New("slow")); err != nil {
		t.Fatalf("stale FinishLoad: %v", err)
	}
	if !c.Loading() {
		t.Fatal("stale result cleared the loading flag")
	}

	sessB := &api.ChatSession{SessionID: "B"}
	if _, err := c.FinishLoad("B", sessB, nil); err != nil {
		t.Fatalf("FinishLoad(B): %v", err)
	}
	if c.Loading() {
		t.Fatal("Loading = true after the matching result arrived")
	}

	c.BeginLoad("C")
	c.Reset()
	if c.Loading() {
		t.Fatal("Reset left the loading flag set")
	}
}

func TestFailedLoadLeavesViewIntact(t *testing.T) {
	c := New()
	at, _ := c.BeginSend("Hello")
	_ = c.FinishSend(at, helloResult(), nil)

	c.BeginLoad("other")
	loadErr := errors.New("not found")
	applied, err := c.FinishLoad("other", nil, loadErr)
	if applied {
		t.Fatal("failed load reported applied")
	}
	if !errors.Is(err, loadErr) {
		t.Fatalf("FinishLoad error = %v, want %v", err, loadErr)
	}
	if len(c.Messages()) != 2 {
		t.Fatal("failed load disturbed the previous view")
	}
}

func TestResetGuardsPendingSend(t *testing.T) {
	c := New()
	at, _ := c.BeginSend("Hello")

	c.Reset()

	if err := c.FinishSend(at, helloResult(), nil); err != nil {
		t.Fatalf("stale FinishSend: %v", err)
	}
	if got := len(c.Messages()); got != 0 {
		t.Fatalf("log has %d messages after reset, want 0", got)
	}
	if got := c.SessionID(); got != "" {
		t.Fatalf("SessionID = %q after reset, want empty", got)
	}

	// A new send must be possible immediately after the reset.
	if _, err := c.BeginSend("fresh"); err != nil {
		t.Fatalf("BeginSend after reset: %v", err)
	}
}

func TestLoadInvalidatesPendingSend(t *testing.T) {
	c := New()
	at, _ := c.BeginSend("Hello")

	c.BeginLoad("X")
	sess := &api.ChatSession{SessionID: "X", MessageCount: 3}
	if applied, err := c.FinishLoad("X", sess, nil); err != nil || !applied {
		t.Fatalf("FinishLoad = (%v, %v), want applied", applied, err)
	}

	// The old send resolving must not append into the loaded session.
	_ = c.FinishSend(at, helloResult(), nil)
	if got := c.SessionID(); got != "X" {
		t.Fatalf("SessionID = %q, want X", got)
	}
	if got := len(c.Messages()); got != 0 {
		t.Fatalf("log has %d messages, want 0 from empty session X", got)
	}
}

func TestSessionDeleted(t *testing.T) {
	c := New()
	at, _ := c.BeginSend("Hello")
	_ = c.FinishSend(at, helloResult(), nil)

	c.SessionDeleted("unrelated")
	if c.SessionID() != "s1" {
		t.Fatal("deleting an unrelated session disturbed the active one")
	}

	c.SessionDeleted("s1")
	if c.SessionID() != "" || len(c.Messages()) != 0 {
		t.Fatal("deleting the active session did not reset the conversation")
	}
}

func TestStatsWindow(t *testing.T) {
	c := New()

	send := func(latency time.Duration, cacheHit bool, tokens int64, count int) {
		at, err := c.BeginSend("q")
		if err != nil {
			t.Fatalf("BeginSend: %v", err)
		}
		res := helloResult()
		res.Response.Latency = latency
		res.Response.CacheHit = cacheHit
		res.Response.MessageCount = count
		res.Response.CostMetrics = &api.CostMetrics{TotalTokens: tokens}
		if err := c.FinishSend(at, res, nil); err != nil {
			t.Fatalf("FinishSend: %v", err)
		}
	}

	send(100*time.Millisecond, false, 30, 2)
	send(300*time.Millisecond, true, 50, 4)

	st := c.Stats()
	if st.Messages != 4 {
		t.Fatalf("Messages = %d, want 4", st.Messages)
	}
	if st.TotalTokens != 80 {
		t.Fatalf("TotalTokens = %d, want 80", st.TotalTokens)
	}
	if st.AvgLatency != 200*time.Millisecond {
		t.Fatalf("AvgLatency = %v, want 200ms", st.AvgLatency)
	}
	if st.CacheHits != 1 {
		t.Fatalf("CacheHits = %d, want 1", st.CacheHits)
	}
}

func TestResponseSinkReceivesConfirmedResponses(t *testing.T) {
	c := New()
	var seen []api.ChatResponse
	c.OnResponse(func(r api.ChatResponse) { seen = append(seen, r) })

	at, _ := c.BeginSend("Hello")
	_ = c.FinishSend(at, helloResult(), nil)

	at2, _ := c.BeginSend("doomed")
	_ = c.FinishSend(at2, nil, errors.New("boom"))

	if len(seen) != 1 {
		t.Fatalf("sink saw %d responses, want only the confirmed one", len(seen))
	}
}
