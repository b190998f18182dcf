package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/regression"
)

var (
	trainCSV string
	trainOut string
)

// trainCmd fits the model from a CSV file
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the regression model from a CSV file",
	Long: `Fit the profit model from a CSV with the columns
R&D Spend, Administration, Marketing Spend, State, Profit and save it.
The saved path is remembered and used by serve when no model is given.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&trainCSV, "csv", "", "Training data CSV")
	trainCmd.Flags().StringVar(&trainOut, "out", "model.gob", "Where to write the trained model")
	trainCmd.MarkFlagRequired("csv")
}

func runTrain(cmd *cobra.Command, args []string) error {
	_, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	samples, err := regression.LoadCSVFile(trainCSV)
	if err != nil {
		return err
	}

	model := regression.NewProfitModel()
	if err := model.Fit(samples); err != nil {
		return fmt.Errorf("failed to fit model: %w", err)
	}

	out, err := filepath.Abs(trainOut)
	if err != nil {
		return err
	}
	if err := model.Save(out); err != nil {
		return err
	}
	log.Info("Model trained",
		zap.Int("samples", len(samples)),
		zap.String("version", model.Version()),
		zap.String("path", out),
	)

	settings, err := config.LoadSettings()
	if err != nil {
		log.Warn("could not load settings", zap.Error(err))
	}
	settings.ModelPath = out
	if err := config.SaveSettings(settings); err != nil {
		log.Warn("could not save settings", zap.Error(err))
	}

	fmt.Printf("Saved model %s to %s\n", model.Version(), out)
	return nil
}
