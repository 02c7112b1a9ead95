package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/respvars/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new respvars config",
	Long: `Initialize a respvars config in the current directory.

This creates respvars.yaml with an example variable and poll target.

Examples:
  respvars init
  respvars init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

// sampleConfig is the config written by init.
func sampleConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Variables = map[string]config.Variable{
		"state": {Regex: `"state"\s*:\s*"(\w+)"`},
		"ids":   {Name: "ids", Regex: `\d+`, Path: "items.#.id"},
	}
	cfg.Overrides = map[string]string{
		"state": "initial",
	}
	cfg.Env.Files = []string{".env"}
	cfg.Poll.URL = "http://localhost:3000/status?since=${state}"
	cfg.Poll.Headers = map[string]string{
		"Accept": "application/json",
	}
	cfg.History.Path = "respvars.db"
	return cfg
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile))
		}
	}

	if err := sampleConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nrespvars config initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'respvars validate' to check it, then 'respvars poll --print'.\n")

	return nil
}
