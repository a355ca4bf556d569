package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/atelier/internal/app"
	"github.com/abhisek/atelier/internal/logger"
	"github.com/abhisek/atelier/internal/screens/diagnose"
	"github.com/abhisek/atelier/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs go to a file.
	if cfg.Logging.Output == "" || cfg.Logging.Output == "stderr" || cfg.Logging.Output == "stdout" {
		dir, err := store.DataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.Logging.Output = filepath.Join(dir, "atelier.log")
	}
	log := logger.Must(cfg.Logging)

	d, err := buildDeps(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	log.Info("starting terminal app")
	return app.Run(app.Options{
		Diagnose: diagnose.Deps{
			Assessments: d.assessments,
			Warning:     d.warning,
			Log:         log,
		},
		Repo: d.store.AssessmentRepo(),
	})
}
