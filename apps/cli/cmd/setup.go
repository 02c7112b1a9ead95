package cmd

import (
	"io"
	"os"

	"github.com/abdul-hamid-achik/respvars/packages/core/config"
	"github.com/abdul-hamid-achik/respvars/packages/core/env"
	"github.com/abdul-hamid-achik/respvars/packages/logger"
	"github.com/abdul-hamid-achik/respvars/packages/output"
	"github.com/abdul-hamid-achik/respvars/packages/provider"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, configError("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logger.Logger, error) {
	level := cfg.Log.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	l, err := logger.New(logger.Config{Level: level, Development: cfg.Log.Development})
	if err != nil {
		return nil, configError("creating logger: %w", err)
	}
	return l, nil
}

func newFallback(cfg *config.Config) (env.Chain, error) {
	chain, err := env.NewChain(env.Options{
		Overrides:          cfg.Overrides,
		Files:              cfg.Env.Files,
		Prefix:             cfg.Env.Prefix,
		IgnoreMissingFiles: cfg.Env.GetIgnoreMissing(),
	})
	if err != nil {
		return nil, configError("%w", err)
	}
	if len(setFlag) > 0 {
		chain = chain.With(env.MapSource(setFlag))
	}
	return chain, nil
}

// newExtractor builds a configured ValueExtractor whose extraction passes are
// logged through log.
func newExtractor(cfg *config.Config, log logger.Logger) (*provider.ValueExtractor, error) {
	fallback, err := newFallback(cfg)
	if err != nil {
		return nil, err
	}

	values := provider.New(fallback, provider.WithReportFunc(logger.ExtractionReporter(log)))
	if err := values.Configure(cfg.Definitions()); err != nil {
		return nil, configError("configuring variables: %w", err)
	}
	return values, nil
}

func newFormatter(w io.Writer) (output.Formatter, error) {
	f, err := output.New(outputFlag, w, noColorFlag)
	if err != nil {
		return nil, withExitCode(ExitUsageError, err)
	}
	return f, nil
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
