package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/atelier/internal/llm"
	"github.com/abhisek/atelier/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM calls recorded.")
			return nil
		}

		tw := newTable(out)
		fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tSUBJECT\tMODEL\tIN\tOUT\tMS\tOK")
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				e.ID, e.Timestamp.Local().Format(timestampLayout), e.Purpose, truncate(e.Subject, 8),
				truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
		}
		return tw.Flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		out := cmd.OutOrStdout()
		tw := newTable(out)
		fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
		fmt.Fprintf(tw, "Time:\t%s\n", e.Timestamp.Local().Format(timestampLayout))
		fmt.Fprintf(tw, "Provider:\t%s\n", e.Provider)
		fmt.Fprintf(tw, "Model:\t%s\n", e.Model)
		fmt.Fprintf(tw, "Purpose:\t%s\n", e.Purpose)
		if e.Subject != "" {
			fmt.Fprintf(tw, "Subject:\t%s\n", e.Subject)
		}
		fmt.Fprintf(tw, "Tokens:\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(tw, "Latency:\t%dms\n", e.LatencyMs)
		fmt.Fprintf(tw, "Success:\t%v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(tw, "Error:\t%s\n", e.ErrorMessage)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		printBody(out, "REQUEST", e.RequestBody)
		printBody(out, "RESPONSE", e.ResponseBody)
		return nil
	},
}

// printBody prints a captured payload, indenting it when it is JSON.
func printBody(w io.Writer, title, body string) {
	rule := strings.Repeat("─", 60)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
	if body == "" {
		fmt.Fprintln(w, "(not captured)")
		return
	}
	var buf bytes.Buffer
	if json.Indent(&buf, []byte(body), "", "  ") == nil {
		body = buf.String()
	}
	fmt.Fprintln(w, body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		tw := newTable(out)
		fmt.Fprintln(tw, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS")
		var calls, in, outTok int
		for _, st := range byPurpose {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
			calls += st.Calls
			in += st.InputTokens
			outTok += st.OutputTokens
		}
		fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t\n", calls, in, outTok)
		if err := tw.Flush(); err != nil {
			return err
		}

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		fmt.Fprintln(out)
		return printCosts(out, byModel)
	},
}

// printCosts prices each model's usage. Models without a known price are
// listed with "?" and leave the total marked partial.
func printCosts(w io.Writer, usage []store.LLMModelUsage) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MODEL\tCALLS\tINPUT\tOUTPUT\tCOST")
	var total float64
	var unpriced []string
	for _, mu := range usage {
		cost := "?"
		if mc := llm.LookupCost(mu.Model); mc != nil {
			c := mc.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(tw, "%s\t\t\t\t%s\n", label, formatCost(total))
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
	return nil
}

var llmPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return errors.New("--keep must not be negative")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.EventRepo().PruneLLMEvents(cmd.Context(), keep)
		if err != nil {
			return fmt.Errorf("prune events: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d calls, kept the latest %d.\n", n, keep)
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "only show one purpose ("+llm.PurposeWorldview+" or "+llm.PurposeProbe+")")
	llmPruneCmd.Flags().Int("keep", 500, "number of recent calls to keep")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd, llmPruneCmd)
}
