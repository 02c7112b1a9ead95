package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/respvars/packages/core/env"
	"github.com/abdul-hamid-achik/respvars/packages/logger"
	"github.com/spf13/cobra"
)

var (
	renderPayloadFlag string
	renderStrictFlag  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [template-file]",
	Short: "Substitute ${name} placeholders in a template",
	Long: `Render a template by replacing ${name} placeholders. Values come from
the payload given with --payload (when set) and then from overrides,
.env files and the environment. Unresolved placeholders are kept as-is
unless --strict is set.

Examples:
  respvars render body.tmpl --payload last-response.json
  echo 'cursor=${nextCursor}' | respvars render --strict`,
	Args: cobra.MaximumNArgs(1),
	RunE: renderCommand,
}

func init() {
	renderCmd.Flags().StringVar(&renderPayloadFlag, "payload", "", "Response payload to extract variables from first")
	renderCmd.Flags().BoolVar(&renderStrictFlag, "strict", false, "Fail when a placeholder cannot be resolved")
}

func renderCommand(cmd *cobra.Command, args []string) error {
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

	if renderPayloadFlag != "" {
		payload, err := readInput(cmd.InOrStdin(), renderPayloadFlag)
		if err != nil {
			return fmt.Errorf("reading payload: %w", err)
		}
		values.Extract(payload)
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" && renderPayloadFlag == "-" {
		return withExitCode(ExitUsageError, fmt.Errorf("template and payload cannot both come from stdin"))
	}
	template, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	resolver := env.NewResolver(values, env.WithWarnFunc(logger.WarnFunc(log)))
	if renderStrictFlag && resolver.HasUnresolvedVariables(template) {
		missing := resolver.GetUnresolvedVariables(template)
		return withExitCode(ExitFailure, fmt.Errorf("unresolved variables: %s", strings.Join(missing, ", ")))
	}

	fmt.Fprint(cmd.OutOrStdout(), resolver.Resolve(template))
	return nil
}
