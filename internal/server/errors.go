package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/wizard"
)

// requestError marks a malformed request.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func statusFor(err error) int {
	var ae *assessment.AnalysisError
	var tooLarge *http.MaxBytesError
	var re *requestError
	switch {
	case errors.Is(err, wizard.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrInvalidStep), errors.Is(err, wizard.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &ae):
		return http.StatusBadGateway
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &re),
		errors.Is(err, quiz.ErrAnswerCount),
		errors.Is(err, quiz.ErrAnswerValue),
		errors.Is(err, analysis.ErrUnsupportedImage),
		errors.Is(err, analysis.ErrImageTooLarge),
		errors.Is(err, analysis.ErrTooManyImages),
		errors.Is(err, analysis.ErrMissingImages):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes {"error": ...} with the status matching err.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := assessment.Describe(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
