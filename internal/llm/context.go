package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	subjectKey contextKey = "llm_subject"
)

// Purposes recorded with every LLM event.
const (
	PurposeWorldview = "worldview-analysis"
	PurposeProbe     = "probe"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithSubject tags the context with the ID of the assessment or wizard
// session the request is made for.
func WithSubject(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subjectKey, id)
}

// SubjectFrom returns the subject ID or "" when none was attached.
func SubjectFrom(ctx context.Context) string {
	v, _ := ctx.Value(subjectKey).(string)
	return v
}
