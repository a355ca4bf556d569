package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.AssessmentRepo().ListAssessments(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list assessments: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(w, "No assessments found.")
			return nil
		}

		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tCREATED\tTYPE\tPCT\tKEYWORDS")
		for _, r := range recs {
			typ := r.QuizType
			if r.Placeholder {
				typ += " *"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(typ, 34),
				r.QuizPercent,
				strings.Join(r.Keywords, ", "),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if hasPlaceholder(recs) {
			fmt.Fprintln(w, "\n* sample analysis, the AI service was unavailable")
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one assessment in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		r, err := s.AssessmentRepo().GetAssessment(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get assessment: %w", err)
		}
		if r == nil {
			return fmt.Errorf("assessment %s not found", args[0])
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:        %s\n", r.ID)
		fmt.Fprintf(w, "Created:   %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Type:      %s (passion: %d%%, %d type A answers)\n", r.QuizType, r.QuizPercent, r.TypeACount)
		fmt.Fprintf(w, "Sample:    %v\n", r.Placeholder)
		if r.PDFPath != "" {
			fmt.Fprintf(w, "Report:    %s\n", r.PDFPath)
		}
		if len(r.DeliveredTo) > 0 {
			fmt.Fprintf(w, "Sent to:   %s\n", strings.Join(r.DeliveredTo, ", "))
		}

		var a analysis.Analysis
		if err := json.Unmarshal([]byte(r.AnalysisJSON), &a); err != nil {
			return fmt.Errorf("decode analysis: %w", err)
		}

		sep := strings.Repeat("─", 60)
		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		fmt.Fprintf(w, "Keywords:  %s\n", strings.Join(a.Keywords, ", "))
		for _, e := range a.Scores.Entries() {
			fmt.Fprintf(w, "%-13s %3d\n", e.Label, e.Value)
		}
		fmt.Fprintln(w, sep)
		fmt.Fprintf(w, "Current:   %s\n           %s\n", a.Current.Catchphrase, a.Current.Features)
		fmt.Fprintf(w, "Ideal:     %s\n           %s\n", a.Ideal.Catchphrase, a.Ideal.Features)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, a.RoadmapAdvice)
		for i, step := range a.RoadmapSteps {
			fmt.Fprintf(w, "%d. %s\n", i+1, step)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of assessments to show")
	historyCmd.AddCommand(historyViewCmd)
}

func hasPlaceholder(recs []store.AssessmentRecord) bool {
	for _, r := range recs {
		if r.Placeholder {
			return true
		}
	}
	return false
}
