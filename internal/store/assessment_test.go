package store

import (
	"slices"
	"testing"
	"time"
)

func TestSaveAndGetAssessment(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := t.Context()

	rec := &AssessmentRecord{
		QuizType:     "Ultra-intuitive passionate artist",
		QuizPercent:  73,
		TypeACount:   22,
		Keywords:     []string{"light", "memory", "sea", "glass", "silence"},
		AnalysisJSON: `{"five_keywords":[]}`,
		PDFPath:      "/tmp/x.pdf",
		DeliveredTo:  []string{"a@example.com"},
	}
	if err := repo.SaveAssessment(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.ID == "" || rec.Sequence == 0 || rec.CreatedAt.IsZero() {
		t.Fatalf("save did not fill identity fields: %+v", rec)
	}

	got, err := repo.GetAssessment(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored assessment")
	}
	if got.QuizType != rec.QuizType || got.QuizPercent != 73 || got.TypeACount != 22 {
		t.Errorf("quiz fields = %+v", got)
	}
	if !slices.Equal(got.Keywords, rec.Keywords) {
		t.Errorf("keywords = %v, want %v", got.Keywords, rec.Keywords)
	}
	if !slices.Equal(got.DeliveredTo, rec.DeliveredTo) {
		t.Errorf("delivered = %v, want %v", got.DeliveredTo, rec.DeliveredTo)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
	if got.Placeholder {
		t.Error("placeholder flag flipped")
	}
}

func TestGetAssessmentMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.AssessmentRepo().GetAssessment(t.Context(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestSaveAssessmentDuplicateID(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()

	if err := repo.SaveAssessment(t.Context(), &AssessmentRecord{ID: "same"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.SaveAssessment(t.Context(), &AssessmentRecord{ID: "same"}); err == nil {
		t.Fatal("expected error on duplicate ID")
	}
}

func TestListAssessments(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := t.Context()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 4 {
		rec := &AssessmentRecord{
			QuizType:    "type",
			QuizPercent: i * 10,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			Placeholder: i%2 == 1,
		}
		if err := repo.SaveAssessment(ctx, rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := repo.ListAssessments(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d, want 4", len(all))
	}
	if all[0].QuizPercent != 30 {
		t.Errorf("newest percent = %d, want 30", all[0].QuizPercent)
	}
	if !all[0].Placeholder || all[1].Placeholder {
		t.Error("placeholder flags not preserved")
	}
	if all[3].Keywords == nil || len(all[3].Keywords) != 0 {
		t.Errorf("keywords = %#v, want empty slice", all[3].Keywords)
	}

	limited, err := repo.ListAssessments(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited = %d, want 1", len(limited))
	}

	ranged, err := repo.ListAssessments(ctx, QueryOpts{From: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("list ranged: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("ranged = %d, want 2", len(ranged))
	}

	n, err := repo.CountAssessments(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4", n)
	}
}
