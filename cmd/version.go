package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/atelier/internal/selfupdate"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "atelier", version)

		check, _ := cmd.Flags().GetBool("check")
		if !check {
			return nil
		}
		res, err := selfupdate.NewChecker().Check(cmd.Context(), &selfupdate.CheckInput{Version: version})
		if err != nil {
			return err
		}
		if res.UpdateAvailable {
			fmt.Fprintf(out, "%s is available: %s\nRun `atelier update` to install it.\n", res.LatestVersion, res.ReleaseURL)
		} else {
			fmt.Fprintln(out, "No newer release.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "look for a newer release")
}
