package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/client"
	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/form"
	"github.com/kartoza/profit-predictor/internal/presets"
	"github.com/kartoza/profit-predictor/internal/terminal"
)

var (
	predictURL    string
	predictPreset string
)

// predictCmd fills in the form interactively
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Fill in the prediction form in the terminal",
	Long: `Prompt for R&D, administration and marketing spend and the state, send
them to a running prediction service and print the predicted profit.`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictURL, "url", "", "Prediction endpoint (default: this host's /api/predict)")
	predictCmd.Flags().StringVar(&predictPreset, "preset", "", "Name of a saved preset to start from (default: the last one used)")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	if predictURL != "" {
		cfg.Form.PredictURL = predictURL
	}

	store, err := presets.NewStore(cfg.DataDir)
	if err != nil {
		log.Warn("Presets store not available", zap.Error(err))
		store = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := terminal.NewSession(
		terminal.NewSurveyDriver(),
		client.New(cfg.PredictEndpoint(), cfg.Form.RequestTimeout, log),
		store,
		form.Options{
			ErrorTTL:        cfg.Form.ErrorNoticeTTL,
			SuccessTTL:      cfg.Form.SuccessNoticeTTL,
			SummaryDebounce: cfg.Form.SummaryDebounce,
			Logger:          log,
		},
	)

	err = session.Run(ctx, resolvePreset(predictPreset, store, log))
	if errors.Is(err, terminal.ErrAborted) {
		return nil
	}
	return err
}

// resolvePreset picks the preset to start from. An explicit name that exists
// is remembered for next time; without one the remembered name is used if
// that preset still exists.
func resolvePreset(explicit string, store *presets.Store, log *zap.Logger) string {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Warn("could not load settings", zap.Error(err))
	}

	if explicit != "" {
		if store != nil {
			if _, err := store.FindByName(explicit); err == nil && settings.LastPreset != explicit {
				settings.LastPreset = explicit
				if err := config.SaveSettings(settings); err != nil {
					log.Warn("could not save settings", zap.Error(err))
				}
			}
		}
		return explicit
	}

	if settings.LastPreset == "" || store == nil {
		return ""
	}
	if _, err := store.FindByName(settings.LastPreset); err != nil {
		log.Warn("last used preset is gone", zap.String("preset", settings.LastPreset))
		return ""
	}
	return settings.LastPreset
}
