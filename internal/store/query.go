package store

import (
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed-width so stored timestamps compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// whereClause renders the shared QueryOpts filters against the given
// timestamp column. purpose filtering is only applied when withPurpose is set.
func whereClause(opts QueryOpts, tsColumn string, withPurpose bool) (string, []any) {
	var conds []string
	var args []any

	if opts.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		conds = append(conds, tsColumn+" >= ?")
		args = append(args, formatTime(opts.From))
	}
	if !opts.To.IsZero() {
		conds = append(conds, tsColumn+" <= ?")
		args = append(args, formatTime(opts.To))
	}
	if withPurpose && opts.Purpose != "" {
		conds = append(conds, "purpose = ?")
		args = append(args, opts.Purpose)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
