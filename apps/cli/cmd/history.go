package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/respvars/packages/history"
	"github.com/spf13/cobra"
)

var errNoHistory = errors.New("no history database: set history.path or pass --db")

var (
	historyDBFlag    string
	historyLimitFlag int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded extraction passes",
	Long: `Show the most recent extraction passes recorded by "respvars poll".

The database defaults to history.path from the config file.

Examples:
  respvars history
  respvars history --limit 5 -o json
  respvars history --db respvars.db`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "db", getEnvString("RESPVARS_HISTORY", ""), "SQLite history file (env: RESPVARS_HISTORY)")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Number of passes to show")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	path := historyDBFlag
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.History.Path
	}
	if path == "" {
		return withExitCode(ExitUsageError, errNoHistory)
	}

	store, err := history.Open(path)
	if err != nil {
		return configError("opening history: %w", err)
	}
	defer store.Close()

	passes, err := store.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	formatter.FormatPasses(passes)
	return nil
}
