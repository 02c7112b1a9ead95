package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	outputFlag   string
	noColorFlag  bool
	logLevelFlag string
	setFlag      map[string]string
)

var rootCmd = &cobra.Command{
	Use:   "respvars",
	Short: "Extract variables from HTTP responses and chain them into the next request.",
	Long: `respvars extracts named variables from HTTP response payloads with
regular expressions and substitutes them into ${name} placeholders of the
next request. Variables that were not found in the latest response fall
back to configuration overrides, .env files and the process environment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", getEnvString("RESPVARS_CONFIG", ""), "Path to config file (env: RESPVARS_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", getEnvString("RESPVARS_OUTPUT", "console"), "Output format: console, json (env: RESPVARS_OUTPUT)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("RESPVARS_NO_COLOR", false), "Disable colored output (env: RESPVARS_NO_COLOR)")
	rootCmd.PersistentFlags().StringToStringVar(&setFlag, "set", nil, "Fallback value as name=value, ahead of config overrides (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("RESPVARS_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: RESPVARS_LOG_LEVEL)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
