package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/hodr"
	"github.com/aretw0/hodr/internal/config"
	"github.com/spf13/cobra"

	// Bucket drivers for blob destinations.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

var rootCmd = &cobra.Command{
	Use:   "hodr",
	Short: "Hodr runs declarative request-orchestration lanes",
	Long: `Hodr declares modules and routers whose lanes extract, validate, transform
and forward data to external destinations, journaling every step.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "hodr.yaml", "Application config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides config)")
}

// loadConfig reads the config file named by the flags, then the environment
// and the log flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.NewDefaultConfig()
	if _, err := os.Stat(path); err == nil || cmd.Flags().Changed("config") {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	return cfg, cfg.Validate()
}

// appSetup contributes App options once the config and logger are known.
type appSetup func(cfg *config.Config, logger *slog.Logger) []hodr.Option

// loadApp builds the application the config describes.
func loadApp(ctx context.Context, cmd *cobra.Command, setups ...appSetup) (*hodr.App, *config.Config, *config.Resources, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(logger)

	opts := []hodr.Option{
		hodr.WithLogger(logger),
		hodr.WithAppID(cfg.App.ID),
		hodr.WithAppName(cfg.App.Name),
	}
	for _, setup := range setups {
		opts = append(opts, setup(cfg, logger)...)
	}
	app := hodr.New(opts...)

	res, err := config.Apply(ctx, app, cfg)
	if err != nil {
		if res != nil {
			_ = res.Close()
		}
		return nil, nil, nil, err
	}
	return app, cfg, res, nil
}
