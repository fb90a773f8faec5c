package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezapp/marketplace-service/config"
	"github.com/rezapp/marketplace-service/internal/api"
	"github.com/rezapp/marketplace-service/internal/httpx"
	"github.com/rezapp/marketplace-service/internal/httpx/ratelimit"
	"github.com/rezapp/marketplace-service/internal/token"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rez",
	Short: "Marketplace CLI - inspect aggregated shopping rewards data",
	Long: `A CLI for the marketplace aggregation service. Browse the mall and
cash-store screens, search brands, manage stored credentials and export
cashback reports, all against the same rewards backend the service uses.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg != nil && cfg.Logging.NoColor}
	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func tokenStore() (*token.Store, error) {
	dir := "./data"
	if cfg != nil && cfg.Upstream.TokenDir != "" {
		dir = cfg.Upstream.TokenDir
	}
	return token.NewStore(dir)
}

func newAPIClient() (*api.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}

	tokens, err := tokenStore()
	if err != nil {
		return nil, err
	}

	rlConfig := ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
		MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
	}
	upstream := httpx.NewClient(rlConfig, tokens, *logger)
	if cfg.Upstream.Timeout > 0 {
		upstream.SetTimeout(cfg.Upstream.Timeout)
	}
	return api.NewClient(upstream, cfg.Upstream.BaseURL, *logger), nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
