// Package diagnose holds the wizard screens: quiz, upload, analyzing and
// result. Each step replaces the previous one on the router stack.
package diagnose

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/wizard"
)

// Deps are shared by every wizard screen.
type Deps struct {
	Assessments *assessment.Service

	// Warning is shown on the upload screen, e.g. when no LLM provider is
	// configured.
	Warning string

	Log *zap.Logger
}

func (d Deps) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func stepStatus(s wizard.Step) string {
	return fmt.Sprintf("Step %d/4", int(s))
}
