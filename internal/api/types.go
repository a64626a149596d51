package api

import "time"

// Role identifies the author of a chat message. The set is closed:
// the backend never returns anything outside these three values.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// InferenceRequest is the body for a single-shot inference call.
type InferenceRequest struct {
	Query       string            `json:"query"`
	Context     string            `json:"context,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float32           `json:"temperature,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CostMetrics is the backend's per-response cost accounting.
// TotalTokens = InputTokens + OutputTokens; EstimatedSavings is
// informational only and never subtracted from TotalCost.
type CostMetrics struct {
	InputTokens      int64   `json:"input_tokens"`
	OutputTokens     int64   `json:"output_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
	Cost             float64 `json:"cost"`
	CacheCost        float64 `json:"cache_cost"`
	TotalCost        float64 `json:"total_cost"`
	EstimatedSavings float64 `json:"estimated_savings"`
	Model            string  `json:"model"`
}

// InferenceResponse is the backend's answer to a single-shot query.
// Latency is reported in nanoseconds on the wire.
type InferenceResponse struct {
	Response      string        `json:"response"`
	ModelUsed     string        `json:"model_used"`
	RoutingReason string        `json:"routing_reason"`
	Latency       time.Duration `json:"latency"`
	CacheHit      bool          `json:"cache_hit"`
	Timestamp     time.Time     `json:"timestamp"`
	CostMetrics   *CostMetrics  `json:"cost_metrics,omitempty"`
}

// InferenceResult pairs the parsed body with the routing decision id
// delivered out-of-band in the X-Decision-ID header. An empty
// DecisionID means the header was absent, which is not an error.
type InferenceResult struct {
	Response   InferenceResponse
	DecisionID string
}

// ChatRequest is the body for one conversation turn. SessionID is
// empty on the first turn of a new conversation; the backend assigns
// one and returns it in the response.
type ChatRequest struct {
	SessionID   string  `json:"session_id,omitempty"`
	Message     string  `json:"message"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	Stream      bool    `json:"stream,omitempty"`
}

// ChatResponse is the backend's answer to a chat turn.
type ChatResponse struct {
	SessionID     string        `json:"session_id"`
	Response      string        `json:"response"`
	ModelUsed     string        `json:"model_used"`
	RoutingReason string        `json:"routing_reason"`
	Latency       time.Duration `json:"latency"`
	CacheHit      bool          `json:"cache_hit"`
	Timestamp     time.Time     `json:"timestamp"`
	MessageCount  int           `json:"message_count"`
	CostMetrics   *CostMetrics  `json:"cost_metrics,omitempty"`
}

// ChatResult pairs a chat response with its decision id header.
type ChatResult struct {
	Response   ChatResponse
	DecisionID string
}

// SessionMessage is one stored message inside a server-held session.
// Only assistant messages carry metadata.
type SessionMessage struct {
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  *MessageMetadata  `json:"metadata,omitempty"`
}

// MessageMetadata is the routing metadata attached to assistant turns.
type MessageMetadata struct {
	ModelUsed     string        `json:"model_used,omitempty"`
	RoutingReason string        `json:"routing_reason,omitempty"`
	Latency       time.Duration `json:"latency,omitempty"`
	CacheHit      bool          `json:"cache_hit,omitempty"`
	CostMetrics   *CostMetrics  `json:"cost_metrics,omitempty"`
	DecisionID    string        `json:"decision_id,omitempty"`
}

// ChatSession is the canonical server-side conversation state.
type ChatSession struct {
	SessionID       string           `json:"session_id"`
	Messages        []SessionMessage `json:"messages"`
	CreatedAt       time.Time        `json:"created_at"`
	LastInteraction time.Time        `json:"last_interaction"`
	TotalTokens     int64            `json:"total_tokens"`
	MessageCount    int              `json:"message_count"`
	ModelPreference string           `json:"model_preference,omitempty"`
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	SessionID       string    `json:"session_id"`
	Title           string    `json:"title"`
	LastInteraction time.Time `json:"last_interaction"`
	MessageCount    int       `json:"message_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// SessionList is the response of the session listing endpoint.
type SessionList struct {
	Sessions []SessionSummary `json:"sessions"`
	Count    int              `json:"count"`
}

// FeedbackRequest attaches user feedback to a prior routing decision.
type FeedbackRequest struct {
	DecisionID string `json:"decision_id"`
	Rating     int    `json:"rating,omitempty"`
	Thumbs     string `json:"thumbs,omitempty"` // "up" or "down"
	Comment    string `json:"comment,omitempty"`
}

// Decision is the full backend-side routing decision record.
type Decision struct {
	ID              string         `json:"id"`
	Query           string         `json:"query,omitempty"`
	ModelUsed       string         `json:"model_used"`
	RoutingReason   string         `json:"routing_reason"`
	Confidence      float64        `json:"confidence,omitempty"`
	ComplexityScore float64        `json:"complexity_score,omitempty"`
	Latency         time.Duration  `json:"latency,omitempty"`
	CacheHit        bool           `json:"cache_hit,omitempty"`
	CostMetrics     *CostMetrics   `json:"cost_metrics,omitempty"`
	Feedback        *DecisionVotes `json:"feedback,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}

// DecisionVotes aggregates feedback recorded against a decision.
type DecisionVotes struct {
	ThumbsUp   int     `json:"thumbs_up"`
	ThumbsDown int     `json:"thumbs_down"`
	AvgRating  float64 `json:"avg_rating"`
	Comments   int     `json:"comments"`
}

// CreateABTestRequest starts a new routing experiment.
type CreateABTestRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	ControlGroup   string  `json:"control_group"`
	TreatmentGroup string  `json:"treatment_group"`
	TrafficSplit   float64 `json:"traffic_split"`
}

// ABTestConfig describes a routing experiment. TrafficSplit is the
// fraction of traffic routed to the treatment group, in [0,1].
type ABTestConfig struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	ControlGroup   string     `json:"control_group"`
	TreatmentGroup string     `json:"treatment_group"`
	TrafficSplit   float64    `json:"traffic_split"`
	IsActive       bool       `json:"is_active"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

// ABGroupMetrics is one group's aggregate within an experiment.
type ABGroupMetrics struct {
	Group        string        `json:"group"`
	Requests     int64         `json:"requests"`
	AvgLatency   time.Duration `json:"avg_latency"`
	CacheHitRate float64       `json:"cache_hit_rate"`
	TotalCost    float64       `json:"total_cost"`
	AvgRating    float64       `json:"avg_rating"`
}

// TrainingMetrics is the evaluation summary of a completed training run.
type TrainingMetrics struct {
	Accuracy          float64 `json:"accuracy"`
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	F1Score           float64 `json:"f1_score"`
	TrainingSamples   int     `json:"training_samples"`
	ValidationSamples int     `json:"validation_samples"`
}

// TrainingResult is the synchronous response of the train endpoint.
// The client assumes nothing beyond what this body reports.
type TrainingResult struct {
	Message string          `json:"message"`
	Version string          `json:"version"`
	Metrics TrainingMetrics `json:"metrics"`
}

// User is the authenticated account as reported by /auth/me.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Picture       string    `json:"picture,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HealthStatus is the unauthenticated health probe response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
