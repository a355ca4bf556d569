package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrRejected is a 4xx other than 429: a bad key, an unknown model or a
// request the provider will not accept. Retrying cannot help.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("LLM request rejected (HTTP %d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// fromStatus maps a provider HTTP failure onto the error types above. A
// zero status means the call never got a response.
func fromStatus(status int, header http.Header, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
	case status >= 400 && status < 500 && status != http.StatusRequestTimeout:
		return &ErrRejected{Status: status, Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(time.Until(t), 0)
	}
	return 0
}

// ErrNotConfigured is returned by the factory when no provider can be built
// from the configuration.
var ErrNotConfigured = errors.New("LLM provider not configured")

// Describe returns a short, user-facing description of an LLM error.
func Describe(err error) string {
	var rl *ErrRateLimit
	var inv *ErrInvalidResponse
	var unavail *ErrProviderUnavailable
	var maxTok *ErrMaxTokensExceeded
	var rejected *ErrRejected
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rl):
		return "the AI service is rate limiting requests, try again in a minute"
	case errors.As(err, &inv):
		return "the AI returned an analysis in an unexpected format"
	case errors.As(err, &maxTok):
		return "the AI response was cut off"
	case errors.As(err, &unavail):
		return "the AI service is unavailable"
	case errors.As(err, &rejected):
		return "the AI service rejected the request, check the API key and model"
	case errors.Is(err, ErrNotConfigured):
		return "no AI provider is configured"
	default:
		return err.Error()
	}
}
