// Package terminal drives the prediction form from an interactive prompt.
package terminal

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/form"
	"github.com/kartoza/profit-predictor/internal/presets"
)

// Session is one interactive run of the form. It is the pipeline's View:
// field state lives in the embedded StateView and notices are printed as
// they appear.
type Session struct {
	*form.StateView

	driver   PromptDriver
	pipeline *form.Pipeline
	events   *form.Events
	presets  *presets.Store
	logger   *zap.Logger
}

var fieldPrompts = map[form.Field]string{
	form.FieldRDSpend:        "R&D Spend ($)",
	form.FieldAdministration: "Administration ($)",
	form.FieldMarketingSpend: "Marketing Spend ($)",
}

// NewSession wires a pipeline to driver. store may be nil.
func NewSession(driver PromptDriver, predictor form.Predictor, store *presets.Store, opts form.Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Session{
		StateView: form.NewStateView(form.Values{}),
		driver:    driver,
		events:    form.NewEvents(),
		presets:   store,
		logger:    opts.Logger,
	}
	s.pipeline = form.New(s, predictor, opts)
	return s
}

// ShowNotice records the notice and prints it immediately
func (s *Session) ShowNotice(n form.Notice) {
	s.StateView.ShowNotice(n)

	prefix := "✔"
	if n.Kind == form.NoticeError {
		prefix = "✖"
	}
	if err := s.driver.Info(context.Background(), fmt.Sprintf("%s %s", prefix, n.Message)); err != nil {
		s.logger.Warn("failed to print notice", zap.Error(err))
	}
}

// Run prompts for values and submits them until the user stops. When
// presetName is set the first round starts from that preset.
func (s *Session) Run(ctx context.Context, presetName string) error {
	defer s.pipeline.Close()
	s.pipeline.Bind(ctx, s.events)

	if presetName != "" {
		if err := s.loadPreset(presetName); err != nil {
			return err
		}
	}

	for {
		if err := s.collect(ctx); err != nil {
			return err
		}

		s.events.Submit()

		if err := s.printOutcome(ctx); err != nil {
			return err
		}

		again, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Predict another?", Default: true})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		s.events.Reset()
	}
}

func (s *Session) loadPreset(name string) error {
	if s.presets == nil {
		return fmt.Errorf("presets are not available")
	}
	p, err := s.presets.FindByName(name)
	if errors.Is(err, presets.ErrNotFound) {
		return fmt.Errorf("preset %q not found", name)
	}
	if err != nil {
		return err
	}

	s.SetValues(form.Values{
		RDSpend:        p.RDSpend,
		Administration: p.Administration,
		MarketingSpend: p.MarketingSpend,
		State:          p.State,
	})
	s.pipeline.RecomputeSummary()
	s.logger.Debug("preset loaded", zap.String("name", p.Name))
	return nil
}

// collect prompts for every field, keeping the current value as default
func (s *Session) collect(ctx context.Context) error {
	for _, f := range form.Fields {
		current := s.Values().Get(f)

		var value string
		if f == form.FieldState {
			v, err := s.promptState(ctx, current)
			if err != nil {
				return err
			}
			value = v
		} else {
			v, err := s.driver.Input(ctx, InputConfig{Message: fieldPrompts[f], Default: current})
			if err != nil {
				return err
			}
			value = v
		}

		s.SetField(f, value)
		s.events.Input(f)
	}
	return nil
}

func (s *Session) promptState(ctx context.Context, current string) (string, error) {
	states := s.pipeline.States()
	options := make([]string, len(states))
	defaultIdx := 0
	for i, st := range states {
		options[i] = st.Label
		if st.Value == current {
			defaultIdx = i
		}
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "State",
		Options:      options,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(states) {
		return "", nil
	}
	return states[idx].Value, nil
}

func (s *Session) printOutcome(ctx context.Context) error {
	state := s.Snapshot()
	sum := state.Summary

	lines := []string{
		"",
		"Input summary",
		fmt.Sprintf("  R&D Spend:       %s", sum.RDSpendText),
		fmt.Sprintf("  Administration:  %s", sum.AdministrationText),
		fmt.Sprintf("  Marketing Spend: %s", sum.MarketingSpendText),
		fmt.Sprintf("  State:           %s", sum.StateLabel),
		fmt.Sprintf("  Total Spend:     %s", sum.TotalText),
	}
	if state.ResultsVisible {
		lines = append(lines, "", fmt.Sprintf("Predicted profit: %s", state.Prediction))
	}
	lines = append(lines, "")

	for _, line := range lines {
		if err := s.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}
