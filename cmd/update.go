package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/atelier/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update [version]",
	Short: "Replace this binary with the latest release",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := &selfupdate.UpdateInput{CurrentVersion: version}
		if len(args) == 1 {
			in.TargetVersion = args[0]
		}
		out := cmd.OutOrStdout()
		err := selfupdate.NewChecker().Update(cmd.Context(), in, func(p selfupdate.UpdateProgress) {
			fmt.Fprintln(out, p.Message)
		})
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Fprintf(out, "atelier %s is the latest release\n", version)
			return nil
		}
		return err
	},
}
