package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/respvars/packages/core/config"
	"github.com/abdul-hamid-achik/respvars/packages/history"
	"github.com/abdul-hamid-achik/respvars/packages/http"
	"github.com/abdul-hamid-achik/respvars/packages/logger"
	"github.com/abdul-hamid-achik/respvars/packages/poller"
	"github.com/abdul-hamid-achik/respvars/packages/provider"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const (
	// WatchDebounceDelay is the debounce delay for config file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	pollWatchFlag     bool
	pollMaxFlag       int
	pollHistoryFlag   string
	pollNoHistoryFlag bool
	pollPrintFlag     bool
	pollInsecureFlag  bool
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll an endpoint, chaining extracted variables into each request",
	Long: `Poll the endpoint configured under "poll". Before each request the URL,
headers and body are rendered from the variables extracted from the
previous response; after each response the variables are extracted anew.

Examples:
  respvars poll
  respvars poll --max 10 --print
  respvars poll --watch --history history.db`,
	Args: cobra.NoArgs,
	RunE: pollCommand,
}

func init() {
	pollCmd.Flags().BoolVarP(&pollWatchFlag, "watch", "w", false, "Reload variables and request template when the config file changes")
	pollCmd.Flags().IntVarP(&pollMaxFlag, "max", "n", getEnvInt("RESPVARS_MAX", 0), "Stop after this many requests, 0 for no limit (env: RESPVARS_MAX)")
	pollCmd.Flags().StringVar(&pollHistoryFlag, "history", getEnvString("RESPVARS_HISTORY", ""), "SQLite file to record extraction passes in (env: RESPVARS_HISTORY)")
	pollCmd.Flags().BoolVar(&pollNoHistoryFlag, "no-history", false, "Do not record extraction passes")
	pollCmd.Flags().BoolVarP(&pollPrintFlag, "print", "p", false, "Print variables after every response")
	pollCmd.Flags().BoolVarP(&pollInsecureFlag, "insecure", "k", getEnvBool("RESPVARS_INSECURE", false), "Disable SSL certificate validation (env: RESPVARS_INSECURE)")
}

func templateFrom(cfg *config.Config) poller.Template {
	return poller.Template{
		Method:  cfg.Poll.Method,
		URL:     cfg.Poll.URL,
		Headers: cfg.Poll.Headers,
		Query:   cfg.Poll.Query,
		Body:    cfg.Poll.Body,
		Timeout: cfg.Poll.Timeout.Std(),
	}
}

func pollCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Poll.URL == "" {
		return configError("poll.url is not set in %s", cfg.Path())
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

	formatter, err := newFormatter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	client := http.NewClient(
		http.WithTimeout(cfg.Poll.Timeout.Std()),
		http.WithFollowRedirects(cfg.Poll.GetFollowRedirects()),
		http.WithMaxRedirects(cfg.Poll.MaxRedirects),
		http.WithValidateSSL(cfg.Poll.GetValidateSSL() && !pollInsecureFlag),
		http.WithDefaultHeaders(map[string]string{"User-Agent": "respvars/" + version}),
	)
	defer client.CloseIdleConnections()

	opts := []poller.Option{poller.WithLogger(log)}

	historyPath := cfg.History.Path
	if pollHistoryFlag != "" {
		historyPath = pollHistoryFlag
	}
	if historyPath != "" && !pollNoHistoryFlag {
		store, err := history.Open(historyPath)
		if err != nil {
			return configError("opening history: %w", err)
		}
		defer store.Close()
		opts = append(opts, poller.WithHistory(store))
	}

	if pollPrintFlag {
		opts = append(opts, poller.WithResultFunc(func(r poller.Result) {
			if r.Response == nil {
				formatter.FormatError(r.Err)
				return
			}
			formatter.FormatVariables(values.ResolveAll())
		}))
	}

	maxIter := cfg.Poll.MaxIterations
	if pollMaxFlag > 0 {
		maxIter = pollMaxFlag
	}

	p := poller.New(poller.Config{
		Template:      templateFrom(cfg),
		Interval:      cfg.Poll.Interval.Std(),
		Rate:          cfg.Poll.Rate,
		MaxIterations: maxIter,
	}, client, values, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if pollWatchFlag && cfg.Path() != "" {
		if err := watchConfig(ctx, cfg.Path(), values, p, log); err != nil {
			return err
		}
	}

	log.Info("polling started",
		logger.String("url", cfg.Poll.URL),
		logger.Int("variables", len(values.Names())),
	)

	runErr := p.Run(ctx)
	formatter.FormatSummary(p.Stats().Summary())
	if runErr != nil {
		return withExitCode(ExitNetworkError, runErr)
	}

	sum := p.Stats().Summary()
	if sum.Total > 0 && sum.Errors == sum.Total {
		return withExitCode(ExitNetworkError, fmt.Errorf("all %d requests failed", sum.Total))
	}
	return nil
}

// watchConfig reloads patterns and the request template whenever the
// config file is written. A config that fails to load or compile is
// logged and the running configuration is kept.
func watchConfig(ctx context.Context, path string, values *provider.ValueExtractor, p *poller.Poller, log logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	reload := func() {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			log.Error("config reload failed, keeping previous configuration", logger.Err(err))
			return
		}
		if err := values.Configure(cfg.Definitions()); err != nil {
			log.Error("config reload failed, keeping previous configuration", logger.Err(err))
			return
		}
		p.SetTemplate(templateFrom(cfg))
		log.Info("config reloaded", logger.Int("variables", len(values.Names())))
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(WatchDebounceDelay, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", logger.Err(err))
			}
		}
	}()

	return nil
}
