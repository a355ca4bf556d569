// Package wizard holds the four-step diagnosis flow shared by the terminal
// and HTTP surfaces.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/quiz"
)

// Step is the position of a session in the wizard.
type Step int

const (
	StepQuiz      Step = iota + 1 // Answering the 30 questions
	StepUpload                    // Attaching current and ideal images
	StepAnalyzing                 // Waiting for the LLM
	StepResult                    // Showing the analysis and PDF
)

func (s Step) String() string {
	switch s {
	case StepQuiz:
		return "quiz"
	case StepUpload:
		return "upload"
	case StepAnalyzing:
		return "analyzing"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// MarshalText encodes the step by name.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a step name.
func (s *Step) UnmarshalText(b []byte) error {
	for _, c := range []Step{StepQuiz, StepUpload, StepAnalyzing, StepResult} {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown wizard step %q", b)
}

var (
	// ErrInvalidStep is returned when an action is not allowed in the
	// session's current step.
	ErrInvalidStep = errors.New("action not allowed in the current step")

	ErrTooManyImages = analysis.ErrTooManyImages
	ErrMissingImages = analysis.ErrMissingImages
)

// Session is one pass through the wizard.
type Session struct {
	ID   string `json:"id"`
	Step Step   `json:"step"`

	// Answers are the submitted quiz answers.
	Answers quiz.Answers `json:"answers,omitempty"`

	// Result is set once the quiz is scored.
	Result *quiz.Result `json:"result,omitempty"`

	Past   []analysis.Image `json:"past,omitempty"`
	Future []analysis.Image `json:"future,omitempty"`

	// Analysis is set in StepResult.
	Analysis *analysis.Analysis `json:"analysis,omitempty"`

	// Placeholder marks a sample analysis used after an LLM failure.
	Placeholder bool `json:"placeholder,omitempty"`

	// AssessmentID is the stored assessment backing the result.
	AssessmentID string `json:"assessment_id,omitempty"`

	// PDFPath is where the report was written, if anywhere.
	PDFPath string `json:"pdf_path,omitempty"`

	// Error is the message from the last failed analysis.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New starts a session at StepQuiz.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Step:      StepQuiz,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

func (s *Session) require(step Step, action string) error {
	if s.Step != step {
		return fmt.Errorf("%s in step %s: %w", action, s.Step, ErrInvalidStep)
	}
	return nil
}

// SubmitAnswers scores the quiz and moves to StepUpload.
func (s *Session) SubmitAnswers(answers quiz.Answers) error {
	if err := s.require(StepQuiz, "submit answers"); err != nil {
		return err
	}
	result, err := quiz.Score(answers)
	if err != nil {
		return err
	}
	s.Answers = append(quiz.Answers(nil), answers...)
	s.Result = &result
	s.Step = StepUpload
	s.touch()
	return nil
}

// AttachImages replaces both image sets. The session stays in StepUpload.
func (s *Session) AttachImages(past, future []analysis.Image) error {
	if err := s.require(StepUpload, "attach images"); err != nil {
		return err
	}
	if err := analysis.CheckCounts(past, future); err != nil {
		return err
	}
	s.Past = append([]analysis.Image(nil), past...)
	s.Future = append([]analysis.Image(nil), future...)
	s.Error = ""
	s.touch()
	return nil
}

// Ready reports whether BeginAnalysis would succeed.
func (s *Session) Ready() bool {
	return s.Step == StepUpload && s.Result != nil && analysis.CheckCounts(s.Past, s.Future) == nil
}

// BeginAnalysis moves to StepAnalyzing once both image sets are attached.
func (s *Session) BeginAnalysis() error {
	if err := s.require(StepUpload, "begin analysis"); err != nil {
		return err
	}
	if err := analysis.CheckCounts(s.Past, s.Future); err != nil {
		return err
	}
	s.Error = ""
	s.Step = StepAnalyzing
	s.touch()
	return nil
}

// Complete records the analysis and moves to StepResult.
func (s *Session) Complete(a *analysis.Analysis, assessmentID string) error {
	if err := s.require(StepAnalyzing, "complete"); err != nil {
		return err
	}
	s.Analysis = a
	s.AssessmentID = assessmentID
	s.Step = StepResult
	s.touch()
	return nil
}

// Fail returns to StepUpload with the error message set so the user can
// retry or change the images.
func (s *Session) Fail(err error) error {
	if stepErr := s.require(StepAnalyzing, "fail"); stepErr != nil {
		return stepErr
	}
	if err != nil {
		s.Error = err.Error()
	}
	s.Step = StepUpload
	s.touch()
	return nil
}

// Reset clears the session and returns to StepQuiz. The ID is kept.
func (s *Session) Reset() {
	*s = Session{
		ID:        s.ID,
		Step:      StepQuiz,
		CreatedAt: s.CreatedAt,
	}
	s.touch()
}

// Clone returns a copy that shares no slices with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Answers = append(quiz.Answers(nil), s.Answers...)
	c.Past = append([]analysis.Image(nil), s.Past...)
	c.Future = append([]analysis.Image(nil), s.Future...)
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	if s.Analysis != nil {
		a := *s.Analysis
		a.Keywords = append([]string(nil), s.Analysis.Keywords...)
		a.RoadmapSteps = append([]string(nil), s.Analysis.RoadmapSteps...)
		c.Analysis = &a
	}
	return &c
}
