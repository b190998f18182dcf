package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/logger"
)

var version = "dev"

var configPath string

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "profit-predictor",
	Short: "Predict startup profit from spend and location",
	Long: `Profit Predictor serves a multi-linear regression model of startup
profit over R&D, administration and marketing spend and the state the
company operates in. It ships a web form, a terminal form and a JSON API.`,
	SilenceUsage: true,
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Profit Predictor v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, predictCmd, trainCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRuntime reads the configuration and builds the logger every command uses
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.Version = version

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

// resolveModelPath picks the model file: explicit value first, then the
// path remembered from the last training run.
func resolveModelPath(explicit string, log *zap.Logger) string {
	if explicit != "" {
		return explicit
	}
	settings, err := config.LoadSettings()
	if err != nil {
		log.Warn("could not load settings", zap.Error(err))
		return ""
	}
	if settings.ModelPath == "" {
		return ""
	}
	if _, err := os.Stat(settings.ModelPath); err != nil {
		log.Warn("saved model path no longer exists", zap.String("path", settings.ModelPath))
		return ""
	}
	log.Info("Using saved model", zap.String("path", settings.ModelPath))
	return settings.ModelPath
}
