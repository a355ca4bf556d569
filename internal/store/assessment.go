package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type assessmentRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const assessmentColumns = `id, sequence, created_at, quiz_type, quiz_percent,
	type_a_count, keywords, analysis_json, placeholder, pdf_path, delivered_to`

func (r *assessmentRepo) SaveAssessment(ctx context.Context, rec *AssessmentRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		rec.Sequence = seq
	}

	keywords, err := json.Marshal(nonNil(rec.Keywords))
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	delivered, err := json.Marshal(nonNil(rec.DeliveredTo))
	if err != nil {
		return fmt.Errorf("marshal recipients: %w", err)
	}
	analysis := rec.AnalysisJSON
	if analysis == "" {
		analysis = "{}"
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO assessments (`+assessmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Sequence, formatTime(rec.CreatedAt), rec.QuizType, rec.QuizPercent,
		rec.TypeACount, string(keywords), analysis, rec.Placeholder, rec.PDFPath, string(delivered),
	)
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepo) GetAssessment(ctx context.Context, id string) (*AssessmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assessmentColumns+" FROM assessments WHERE id = ?", id)
	rec, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *assessmentRepo) ListAssessments(ctx context.Context, opts QueryOpts) ([]AssessmentRecord, error) {
	where, args := whereClause(opts, "created_at", false)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+assessmentColumns+" FROM assessments"+where+
			" ORDER BY sequence DESC"+limitClause(opts.Limit),
		args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []AssessmentRecord
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *assessmentRepo) CountAssessments(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assessments").Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}

func scanAssessment(s scanner) (*AssessmentRecord, error) {
	var (
		rec                          AssessmentRecord
		created, keywords, delivered string
	)
	err := s.Scan(&rec.ID, &rec.Sequence, &created, &rec.QuizType, &rec.QuizPercent,
		&rec.TypeACount, &keywords, &rec.AnalysisJSON, &rec.Placeholder, &rec.PDFPath, &delivered)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan assessment: %w", err)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(keywords), &rec.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(delivered), &rec.DeliveredTo); err != nil {
		return nil, fmt.Errorf("decode recipients of %s: %w", rec.ID, err)
	}
	return &rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
