package diagnose

import "github.com/abhisek/atelier/internal/assessment"

// analysisDoneMsg carries the result of the pipeline run.
type analysisDoneMsg struct {
	Outcome *assessment.Outcome
	Err     error
}

// reportSavedMsg is sent after the result screen writes the PDF.
type reportSavedMsg struct {
	Path string
	Err  error
}
