package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/report"
	"github.com/abhisek/atelier/internal/store"
	"github.com/abhisek/atelier/internal/wizard"
)

type sessionResponse struct {
	ID           string             `json:"id"`
	Step         wizard.Step        `json:"step"`
	StepNumber   int                `json:"step_number"`
	Result       *quiz.Result       `json:"result,omitempty"`
	PastCount    int                `json:"past_count"`
	FutureCount  int                `json:"future_count"`
	Ready        bool               `json:"ready"`
	Analysis     *analysis.Analysis `json:"analysis,omitempty"`
	Placeholder  bool               `json:"placeholder,omitempty"`
	AssessmentID string             `json:"assessment_id,omitempty"`
	Error        string             `json:"error,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func toSessionResponse(s *wizard.Session) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		Step:         s.Step,
		StepNumber:   int(s.Step),
		Result:       s.Result,
		PastCount:    len(s.Past),
		FutureCount:  len(s.Future),
		Ready:        s.Ready(),
		Analysis:     s.Analysis,
		Placeholder:  s.Placeholder,
		AssessmentID: s.AssessmentID,
		Error:        s.Error,
		UpdatedAt:    s.UpdatedAt,
	}
}

type questionResponse struct {
	Questions []quiz.Question `json:"questions"`
	Count     int             `json:"count"`
}

func (s *Server) questions(c *gin.Context) {
	bank := quiz.Bank()
	c.JSON(http.StatusOK, questionResponse{Questions: bank, Count: len(bank)})
}

func (s *Server) load(c *gin.Context) (*wizard.Session, bool) {
	sess, err := s.deps.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return sess, true
}

// update applies fn to the session through the store's atomic Update.
func (s *Server) update(c *gin.Context, fn func(*wizard.Session) error) (*wizard.Session, bool) {
	sess, err := s.deps.Sessions.Update(c.Request.Context(), c.Param("id"), fn)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) save(c *gin.Context, sess *wizard.Session) bool {
	if err := s.deps.Sessions.Save(c.Request.Context(), sess); err != nil {
		s.fail(c, fmt.Errorf("save session: %w", err))
		return false
	}
	return true
}

func (s *Server) createSession(c *gin.Context) {
	sess := wizard.New()
	if !s.save(c, sess) {
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

type answersRequest struct {
	Answers quiz.Answers `json:"answers" binding:"required"`
}

func (s *Server) submitAnswers(c *gin.Context) {
	var req answersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest(fmt.Errorf("invalid request: %w", err)))
		return
	}
	sess, ok := s.update(c, func(w *wizard.Session) error {
		return w.SubmitAnswers(req.Answers)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (s *Server) uploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		s.fail(c, badRequest(fmt.Errorf("invalid upload: %w", err)))
		return
	}
	past, err := readImages(form.File["past"])
	if err != nil {
		s.fail(c, err)
		return
	}
	future, err := readImages(form.File["future"])
	if err != nil {
		s.fail(c, err)
		return
	}

	sess, ok := s.update(c, func(w *wizard.Session) error {
		return w.AttachImages(past, future)
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

func readImages(files []*multipart.FileHeader) ([]analysis.Image, error) {
	if len(files) > analysis.MaxImagesPerSide {
		return nil, fmt.Errorf("%d files: %w", len(files), analysis.ErrTooManyImages)
	}
	out := make([]analysis.Image, 0, len(files))
	for _, fh := range files {
		if fh.Size > analysis.MaxImageBytes {
			return nil, fmt.Errorf("%s: %w", fh.Filename, analysis.ErrImageTooLarge)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		img, err := analysis.DecodeImage(fh.Filename, data)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

type analyzeRequest struct {
	// Recipient is an email address or tg:<chat-id>.
	Recipient string `json:"recipient"`
	// Email is the older name of Recipient.
	Email string `json:"email"`
}

func (r analyzeRequest) to() string {
	if r.Recipient != "" {
		return r.Recipient
	}
	return r.Email
}

type analyzeResponse struct {
	sessionResponse
	Delivered     []string `json:"delivered,omitempty"`
	DeliveryError string   `json:"delivery_error,omitempty"`
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			s.fail(c, badRequest(fmt.Errorf("invalid request: %w", err)))
			return
		}
	}
	to := req.to()
	if to != "" && !s.deps.Assessments.CanDeliver(to) {
		s.fail(c, badRequest(fmt.Errorf("cannot deliver to %q", to)))
		return
	}

	// Only one request can move the session out of StepUpload; the others
	// get ErrInvalidStep.
	sess, ok := s.update(c, (*wizard.Session).BeginAnalysis)
	if !ok {
		return
	}

	out, runErr := s.deps.Assessments.Run(c.Request.Context(), assessment.Request{
		Result:    *sess.Result,
		Past:      sess.Past,
		Future:    sess.Future,
		Recipient: to,
		SubjectID: sess.ID,
	})

	// The session must leave StepAnalyzing even if the client went away.
	ctx := context.WithoutCancel(c.Request.Context())
	if runErr != nil {
		msg := assessment.Describe(runErr)
		_, err := s.deps.Sessions.Update(ctx, sess.ID, func(w *wizard.Session) error {
			return w.Fail(errors.New(msg))
		})
		if err != nil {
			s.log.Error("failed to save session", zap.String("session", sess.ID), zap.Error(err))
		}
		s.fail(c, runErr)
		return
	}

	sess, err := s.deps.Sessions.Update(ctx, sess.ID, func(w *wizard.Session) error {
		if err := w.Complete(out.Analysis, out.ID); err != nil {
			return err
		}
		w.Placeholder = out.Placeholder
		w.PDFPath = out.PDFPath
		return nil
	})
	if err != nil {
		s.fail(c, fmt.Errorf("record assessment %s: %w", out.ID, err))
		return
	}

	resp := analyzeResponse{sessionResponse: toSessionResponse(sess), Delivered: out.Delivered}
	if out.DeliveryErr != nil {
		resp.DeliveryError = out.DeliveryErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) downloadReport(c *gin.Context) {
	sess, ok := s.load(c)
	if !ok {
		return
	}
	if sess.Step != wizard.StepResult || sess.Analysis == nil {
		s.fail(c, fmt.Errorf("download report in step %s: %w", sess.Step, wizard.ErrInvalidStep))
		return
	}

	pdf, err := s.reportBytes(sess)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// reportBytes returns the saved PDF, or renders it again from the session
// when no copy was kept.
func (s *Server) reportBytes(sess *wizard.Session) ([]byte, error) {
	if sess.PDFPath != "" {
		data, err := os.ReadFile(sess.PDFPath)
		if err == nil {
			return data, nil
		}
		s.log.Warn("saved report unreadable, rendering again", zap.String("path", sess.PDFPath), zap.Error(err))
	}
	if s.deps.Renderer == nil {
		return nil, errors.New("no report renderer configured")
	}
	var buf bytes.Buffer
	err := s.deps.Renderer.Render(&buf, report.Document{
		Date:        sess.UpdatedAt,
		Result:      *sess.Result,
		Analysis:    sess.Analysis,
		Past:        sess.Past,
		Future:      sess.Future,
		Placeholder: sess.Placeholder,
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Server) resetSession(c *gin.Context) {
	sess, ok := s.update(c, func(w *wizard.Session) error {
		w.Reset()
		return nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sess))
}

type assessmentResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	QuizType    string    `json:"quiz_type"`
	QuizPercent int       `json:"quiz_percent"`
	Keywords    []string  `json:"keywords"`
	Placeholder bool      `json:"placeholder"`
	DeliveredTo []string  `json:"delivered_to,omitempty"`
}

type assessmentListResponse struct {
	Assessments []assessmentResponse `json:"assessments"`
	Total       int                  `json:"total"`
}

func (s *Server) listAssessments(c *gin.Context) {
	if s.deps.Repo == nil {
		c.JSON(http.StatusOK, assessmentListResponse{Assessments: []assessmentResponse{}})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			s.fail(c, badRequest(fmt.Errorf("limit must be between 1 and 200")))
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	recs, err := s.deps.Repo.ListAssessments(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		s.fail(c, fmt.Errorf("list assessments: %w", err))
		return
	}
	total, err := s.deps.Repo.CountAssessments(ctx)
	if err != nil {
		s.fail(c, fmt.Errorf("count assessments: %w", err))
		return
	}

	resp := assessmentListResponse{
		Assessments: make([]assessmentResponse, len(recs)),
		Total:       total,
	}
	for i, r := range recs {
		resp.Assessments[i] = assessmentResponse{
			ID:          r.ID,
			CreatedAt:   r.CreatedAt,
			QuizType:    r.QuizType,
			QuizPercent: r.QuizPercent,
			Keywords:    r.Keywords,
			Placeholder: r.Placeholder,
			DeliveredTo: r.DeliveredTo,
		}
	}
	c.JSON(http.StatusOK, resp)
}
