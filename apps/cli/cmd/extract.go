package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractVarFlag string

var extractCmd = &cobra.Command{
	Use:   "extract [payload-file]",
	Short: "Extract variables from a response payload",
	Long: `Run every configured pattern against a response payload and print the
resolved variables. Variables that do not match fall back to overrides,
.env files and the environment. The payload is read from stdin when no
file is given or the file is "-".

Examples:
  respvars extract response.json
  curl -s https://api.example.com/items | respvars extract
  respvars extract response.json --var nextCursor`,
	Args: cobra.MaximumNArgs(1),
	RunE: extractCommand,
}

func init() {
	extractCmd.Flags().StringVar(&extractVarFlag, "var", "", "Print only the raw value of this variable")
}

func extractCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	values, err := newExtractor(cfg, log)
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	payload, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	values.Extract(payload)

	if extractVarFlag != "" {
		v, ok := values.GetValue(extractVarFlag)
		if !ok {
			return withExitCode(ExitFailure, fmt.Errorf("variable %q has no value", extractVarFlag))
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}

	formatter, err := newFormatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	formatter.FormatVariables(values.ResolveAll())
	return nil
}
