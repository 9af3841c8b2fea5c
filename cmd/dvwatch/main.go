package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shanehull/dvwatch/internal/ai"
	"github.com/shanehull/dvwatch/internal/config"
	"github.com/shanehull/dvwatch/internal/dvpage"
	"github.com/shanehull/dvwatch/internal/history"
	"github.com/shanehull/dvwatch/internal/logging"
	"github.com/shanehull/dvwatch/internal/metrics"
	"github.com/shanehull/dvwatch/internal/notify"
	"github.com/shanehull/dvwatch/internal/watch"
)

var (
	configPath      string
	pageURL         string
	stateFile       string
	notifierName    string
	geminiModel     string
	timezone        string
	logLevel        string
	metricsTextfile string
)

var rootCmd = &cobra.Command{
	Use:   "dvwatch",
	Short: "Checks the Diversity Visa entry page for new application dates and reports them.",
	Long: `dvwatch runs one check per invocation: it fetches the DV program entry page,
asks Gemini for the program year and entry period, compares the result with the
last stored status and sends a Telegram (or email) message. Schedule it with
cron or a CI job; runs must not overlap.

Secrets are read from TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID and GEMINI_API_KEY.`,
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Optional YAML config file (default: $DVWATCH_CONFIG)")
	flags.StringVar(&geminiModel, "model", "", "Gemini model name (default: gemini-2.5-flash)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: info)")
	flags.IntP("max-chars", "m", 0, "Maximum page characters sent to the model (default: 15000)")

	rootCmd.Flags().StringVar(&pageURL, "url", "", "DV entry page URL")
	rootCmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "Path of the last-status JSON file (default: dv_date_status_gemini.json)")
	rootCmd.Flags().StringVarP(&notifierName, "notifier", "n", "", "Delivery backend: telegram or email (default: telegram)")
	rootCmd.Flags().StringVar(&timezone, "timezone", "", "Time zone for check timestamps (default: Local)")
	rootCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")

	rootCmd.AddCommand(extractCmd)
}

// loadConfig layers flags that were set explicitly over the loaded config.
func loadConfig(cmd *cobra.Command, scope config.Scope) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Page.URL = pageURL
	}
	if flags.Changed("state-file") {
		cfg.StateFile = stateFile
	}
	if flags.Changed("notifier") {
		cfg.Notifier = notifierName
	}
	if flags.Changed("model") {
		cfg.Gemini.Model = geminiModel
	}
	if flags.Changed("timezone") {
		cfg.Timezone = timezone
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("metrics-textfile") {
		cfg.MetricsTextfile = metricsTextfile
	}
	if flags.Changed("max-chars") {
		n, err := flags.GetInt("max-chars")
		if err != nil {
			return nil, err
		}
		cfg.Page.MaxChars = n
	}

	if err := cfg.Validate(scope); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSender(cfg *config.Config) notify.Sender {
	if cfg.Notifier == config.NotifierEmail {
		return notify.NewEmailSender(cfg.Email)
	}
	return notify.NewTelegramSender(cfg.Telegram)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, config.ScopeCheck)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := logging.New(cfg.LogLevel).With("run_id", uuid.NewString())

	gen, err := ai.NewGeminiGenerator(ctx, cfg.Gemini)
	if err != nil {
		return err
	}

	m := metrics.New()

	watcher := watch.New(watch.Deps{
		Fetcher:   dvpage.NewFetcher(cfg.Page, logger.With("component", "dvpage")),
		Extractor: ai.NewExtractor(gen, logger.With("component", "ai")),
		Store:     history.NewStore(cfg.StateFile, logger.With("component", "history")),
		Notifier: notify.NewDispatcher(
			notify.NewRenderer(cfg.Location()),
			newSender(cfg),
			logger.With("component", "notify"),
		),
		Metrics: m,
		Logger:  logger.With("component", "watch"),
		PageURL: cfg.Page.URL,
	})

	watcher.Run(ctx)

	if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Warn("failed to write metrics", "error", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
