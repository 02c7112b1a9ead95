package cmd

import (
	"fmt"
	"sort"

	"github.com/abdul-hamid-achik/respvars/packages/capture"
	"github.com/abdul-hamid-achik/respvars/packages/core/config"
	"github.com/abdul-hamid-achik/respvars/packages/core/env"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a respvars config and compile its patterns",
	Long: `Validate a respvars config file without sending any request.

The file is checked against the config schema and every variable pattern
is compiled. The first invalid or missing pattern is reported.

Examples:
  respvars validate
  respvars validate respvars.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	path := configFlag
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "Error: %v\n", err)
		return configError("validation failed")
	}

	reg, err := capture.Compile(cfg.Definitions())
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", cfg.Path(), err)
		return configError("validation failed")
	}

	for _, name := range undeclaredPlaceholders(cfg, reg) {
		fmt.Fprintf(cmd.OutOrStderr(), "Warning: poll template uses ${%s}, which is neither a variable nor an override\n", name)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d variables)\n", cfg.Path(), reg.Len())
	return nil
}

// undeclaredPlaceholders lists, in sorted order, the placeholders of the poll
// template that no variable or override provides. They can still be supplied
// by --set, env files or the environment.
func undeclaredPlaceholders(cfg *config.Config, reg *capture.Registry) []string {
	parts := []string{cfg.Poll.URL, cfg.Poll.Body}
	for _, v := range cfg.Poll.Headers {
		parts = append(parts, v)
	}
	for _, v := range cfg.Poll.Query {
		parts = append(parts, v)
	}

	seen := make(map[string]bool)
	var names []string
	for _, part := range parts {
		for _, name := range env.Placeholders(part) {
			if seen[name] {
				continue
			}
			seen[name] = true
			if _, ok := reg.Pattern(name); ok {
				continue
			}
			if _, ok := cfg.Overrides[name]; ok {
				continue
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
