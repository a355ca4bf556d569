package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/atelier/internal/analysis"
	"github.com/abhisek/atelier/internal/assessment"
	"github.com/abhisek/atelier/internal/logger"
	"github.com/abhisek/atelier/internal/quiz"
	"github.com/abhisek/atelier/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run one diagnosis from an answers file and write the PDF",
	Long: `Score a quiz answers file, analyze the given images and write the report.

The answers file is a JSON array of 30 entries, each 0/1 or "a"/"b".
Use "-" to read it from stdin.`,
	Example: `  atelier report --answers answers.json --past work1.png,work2.jpg --future goal.png
  atelier report --answers - --past a.png --future b.png --email me@example.com`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.String("answers", "", "Quiz answers JSON file, or - for stdin (required)")
	f.StringSlice("past", nil, "Images of your current work (1-3)")
	f.StringSlice("future", nil, "Images of your ideal work (1-3)")
	f.String("email", "", "Also deliver the report to an email address or tg:<chat-id>")
	f.StringP("out", "o", report.Filename, "Where to write the PDF")
	f.Bool("fallback", false, "Use a sample analysis if the LLM call fails")
	_ = reportCmd.MarkFlagRequired("answers")
}

func readAnswers(cmd *cobra.Command, path string) (quiz.Answers, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	answers, err := quiz.ParseAnswers(r)
	if err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return answers, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if fb, _ := cmd.Flags().GetBool("fallback"); fb {
		cfg.Analysis.AllowFallback = true
	}
	log := logger.Must(cfg.Logging)

	answersPath, _ := cmd.Flags().GetString("answers")
	answers, err := readAnswers(cmd, answersPath)
	if err != nil {
		return err
	}
	result, err := quiz.Score(answers)
	if err != nil {
		return err
	}

	pastPaths, _ := cmd.Flags().GetStringSlice("past")
	futurePaths, _ := cmd.Flags().GetStringSlice("future")
	past, err := analysis.LoadImages(pastPaths)
	if err != nil {
		return fmt.Errorf("past images: %w", err)
	}
	future, err := analysis.LoadImages(futurePaths)
	if err != nil {
		return fmt.Errorf("future images: %w", err)
	}
	if err := analysis.CheckCounts(past, future); err != nil {
		return err
	}

	d, err := buildDeps(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	recipient, _ := cmd.Flags().GetString("email")
	if recipient != "" && !d.assessments.CanDeliver(recipient) {
		return fmt.Errorf("no delivery channel is configured for %q", recipient)
	}

	out, err := d.assessments.Run(cmd.Context(), assessment.Request{
		Result:    result,
		Past:      past,
		Future:    future,
		Recipient: recipient,
		SubjectID: "cli",
	})
	if err != nil {
		return errors.New(assessment.Describe(err))
	}

	outPath, _ := cmd.Flags().GetString("out")
	if err := os.WriteFile(outPath, out.PDF, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Type:       %s\n", result.Label)
	fmt.Fprintf(w, "Keywords:   %s\n", strings.Join(out.Analysis.Keywords, ", "))
	if out.Placeholder {
		fmt.Fprintln(w, "Note:       sample analysis (the LLM call failed)")
	}
	fmt.Fprintf(w, "Report:     %s\n", outPath)
	fmt.Fprintf(w, "Assessment: %s\n", out.ID)
	if len(out.Delivered) > 0 {
		fmt.Fprintf(w, "Sent to:    %s\n", strings.Join(out.Delivered, ", "))
	}
	if out.DeliveryErr != nil {
		fmt.Fprintf(w, "Delivery failed: %v\n", out.DeliveryErr)
	}
	return nil
}
