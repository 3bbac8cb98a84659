package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/journal"
	"github.com/boostup/folio/internal/logging"
	"github.com/boostup/folio/internal/sequencer"
	"github.com/boostup/folio/internal/store"
)

// logger is built in PersistentPreRunE and synced after every command.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "BoostUp portfolio in the terminal",
	Long:  "folio renders the BoostUp agency portfolio as a terminal app: hero, approach, projects, testimonials and contact.",
	Args:  cobra.NoArgs,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("log-file")
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := logging.New(logging.Config{Path: path, Verbose: verbose})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l.With(zap.String("cmd", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, 0)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite journal file (overrides FOLIO_DB env var)")
	pf.String("content", "", "Path to a content YAML file (overrides FOLIO_CONTENT env var)")
	pf.String("log-file", "", "Path to the log file (default $XDG_STATE_HOME/folio/folio.log)")
	pf.BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.Flags().String("policy", "", "Approach timeline: run-once or cyclic (default from content)")
	rootCmd.Flags().Bool("no-journal", false, "Do not record visits")
	rootCmd.Flags().Bool("skip-intro", false, "Start on the home page")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then FOLIO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadContent reads --content, then FOLIO_CONTENT, else the embedded content.
func loadContent(cmd *cobra.Command) (*content.Content, error) {
	flag, _ := cmd.Flags().GetString("content")
	path := content.ResolvePath(flag)
	c, err := content.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	if path != "" {
		logger.Info("content loaded", zap.String("path", path))
	}
	return c, nil
}

// sequencerConfig lets --policy swap the policy of the content file while
// keeping its timings.
func sequencerConfig(cmd *cobra.Command, c *content.Content) (sequencer.Config, error) {
	name, _ := cmd.Flags().GetString("policy")
	if name == "" {
		return c.SequencerConfig()
	}
	p, err := sequencer.ParsePolicy(name)
	if err != nil {
		return sequencer.Config{}, fmt.Errorf("--policy: %w", err)
	}
	return c.SequencerConfigFor(p)
}

// openStore opens the journal database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))
	return st, nil
}

// openJournal returns a recorder, or nil when the journal is disabled or the
// database cannot be opened. The TUI runs either way.
func openJournal(cmd *cobra.Command) (*journal.Recorder, func()) {
	if off, _ := cmd.Flags().GetBool("no-journal"); off {
		return nil, func() {}
	}
	st, err := openStore(cmd)
	if err != nil {
		logger.Warn("journal disabled", zap.Error(err))
		return nil, func() {}
	}
	return journal.New(st.EventRepo(), logger), func() { _ = st.Close() }
}
