package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/pawswap/app"
)

// EnvPrefix prefixes every environment override, e.g. PAWSWAP_MAX_DEPTH.
const EnvPrefix = "PAWSWAP"

const (
	FlagConfig        = "config"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
	FlagNativeDenom   = "native-denom"
	FlagMaxDepth      = "max-depth"
	FlagBlockTimeStep = "block-time-step"
	FlagOutput        = "output"
	FlagOTLPEndpoint  = "otlp-endpoint"
	FlagTraceSampling = "trace-sample-rate"
)

// NewRootCmd creates the pawswap command tree.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "pawswap",
		Short: "Constant-product DEX contracts in a local execution environment",
		Long: `pawswap runs the token, pair, factory and router contracts in an in-memory
environment. Quote swaps offline, replay scenarios or serve contract queries
over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return initViper(v, cmd)
		},
	}

	addEnvironmentFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		QuoteCmd(),
		SimulateCmd(v),
		ServeCmd(v),
		VersionCmd(),
	)
	return rootCmd
}

func addEnvironmentFlags(fs *pflag.FlagSet) {
	defaults := app.DefaultConfig()
	fs.String(FlagConfig, "", "YAML file with environment settings")
	fs.String(FlagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	fs.String(FlagLogFormat, "plain", "log format (plain or json)")
	fs.String(FlagNativeDenom, defaults.NativeDenom, "native coin denom")
	fs.Int(FlagMaxDepth, defaults.MaxDepth, "maximum nesting of dispatched messages")
	fs.Duration(FlagBlockTimeStep, defaults.BlockTimeStep, "block clock advance per transaction")
	fs.String(FlagOTLPEndpoint, "", "OTLP/HTTP collector receiving transaction and dispatch spans")
	fs.Float64(FlagTraceSampling, 1, "fraction of transactions traced")
}

// initViper binds flags, PAWSWAP_ environment variables and the config
// file, in increasing order of precedence for flags set explicitly.
func initViper(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return nil
}

// loadConfig assembles the environment settings from v.
func loadConfig(v *viper.Viper) (app.Config, error) {
	depth, err := cast.ToIntE(v.Get(FlagMaxDepth))
	if err != nil {
		return app.Config{}, fmt.Errorf("%s: %w", FlagMaxDepth, err)
	}
	step, err := cast.ToDurationE(v.Get(FlagBlockTimeStep))
	if err != nil {
		return app.Config{}, fmt.Errorf("%s: %w", FlagBlockTimeStep, err)
	}

	cfg := app.Config{
		NativeDenom:   cast.ToString(v.Get(FlagNativeDenom)),
		MaxDepth:      depth,
		BlockTimeStep: step,
	}
	return cfg, cfg.Validate()
}

// newLogger builds the CLI logger from the log flags.
func newLogger(v *viper.Viper, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString(FlagLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FlagLogLevel, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	switch format := v.GetString(FlagLogFormat); format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain", "":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log.NewLogger(out, opts...), nil
}

// newEnvironment creates an App from the settings bound to v, logging to
// stderr. The returned func flushes exported spans and must be called on
// exit.
func newEnvironment(ctx context.Context, v *viper.Viper) (*app.App, func(context.Context) error, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(v, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.NewApp(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	endpoint := v.GetString(FlagOTLPEndpoint)
	if endpoint == "" {
		return a, func(context.Context) error { return nil }, nil
	}
	rate, err := cast.ToFloat64E(v.Get(FlagTraceSampling))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", FlagTraceSampling, err)
	}
	tp, err := app.NewTracerProvider(ctx, app.TracingConfig{Endpoint: endpoint, SampleRate: rate})
	if err != nil {
		return nil, nil, err
	}
	a.SetTracerProvider(tp)
	logger.Info("exporting traces", "endpoint", endpoint, "sample_rate", rate)
	return a, tp.Shutdown, nil
}
