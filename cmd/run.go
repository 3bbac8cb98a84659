package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boostup/folio/internal/app"
	"github.com/boostup/folio/internal/ui/components"
)

// runApp loads content, opens the journal, and launches the TUI. A non-zero
// projectID starts on that project's page.
func runApp(cmd *cobra.Command, projectID int) error {
	c, err := loadContent(cmd)
	if err != nil {
		return err
	}
	cfg, err := sequencerConfig(cmd, c)
	if err != nil {
		return err
	}

	rec, closeJournal := openJournal(cmd)
	defer closeJournal()

	skip, _ := cmd.Flags().GetBool("skip-intro")
	opts := app.Options{
		Content:      c,
		Sequencer:    cfg,
		Logger:       logger,
		Journal:      rec,
		Clipboard:    components.SystemClipboard,
		StartProject: projectID,
		SkipWelcome:  skip,
	}

	logger.Info("starting",
		zap.Stringer("policy", cfg.Policy),
		zap.Int("project", projectID),
		zap.String("session", rec.SessionID()))
	return app.Run(cmd.Context(), opts)
}
