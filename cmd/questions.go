package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/atelier/internal/quiz"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the quiz questions",
	Long: `Print the 30 quiz questions. The output of --json is a template for the
answers file used by "atelier report".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		w := cmd.OutOrStdout()
		bank := quiz.Bank()

		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(bank)
		}

		for _, q := range bank {
			fmt.Fprintf(w, "%2d. %s\n", q.ID, q.Prompt)
			fmt.Fprintf(w, "    a) %s\n", q.Options[0])
			fmt.Fprintf(w, "    b) %s\n", q.Options[1])
		}
		return nil
	},
}

func init() {
	questionsCmd.Flags().Bool("json", false, "Print as JSON")
}
