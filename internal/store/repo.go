package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only; empty matches all
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Subject      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and inspects LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// PruneLLMEvents deletes all but the keep most recent events.
	PruneLLMEvents(ctx context.Context, keep int) (int64, error)
}

// AssessmentRecord is the persisted outcome of one diagnosis.
type AssessmentRecord struct {
	ID           string
	Sequence     int64
	CreatedAt    time.Time
	QuizType     string
	QuizPercent  int
	TypeACount   int
	Keywords     []string
	AnalysisJSON string
	Placeholder  bool
	PDFPath      string
	DeliveredTo  []string
}

// AssessmentRepo stores completed assessments.
type AssessmentRepo interface {
	// SaveAssessment inserts rec, filling ID, Sequence and CreatedAt
	// when they are zero.
	SaveAssessment(ctx context.Context, rec *AssessmentRecord) error

	// GetAssessment returns the record or nil if it does not exist.
	GetAssessment(ctx context.Context, id string) (*AssessmentRecord, error)

	// ListAssessments returns records newest first.
	ListAssessments(ctx context.Context, opts QueryOpts) ([]AssessmentRecord, error)

	CountAssessments(ctx context.Context) (int, error)
}
