package form

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/currency"
	"github.com/kartoza/profit-predictor/internal/models"
)

// View is the set of UI handles the pipeline drives. Calls are serialized
// by the pipeline; implementations must not call back into it.
type View interface {
	Values() Values
	SetValues(Values)
	SetBusy(busy bool)
	SetSummary(DisplaySummary)
	SetPrediction(text string)
	SetResultsVisible(visible bool)
	RevealResults()
	ShowNotice(Notice)
	RemoveNotice(Notice)
}

// Predictor sends one prediction request. A non-nil error means the exchange
// failed; a decoded body with success=false is not an error.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictRequest) (*models.PredictResponse, error)
}

// EventSource delivers UI events to registered handlers
type EventSource interface {
	OnInput(field Field, handler func())
	OnSubmit(handler func())
	OnReset(handler func())
}

// Options tunes a Pipeline. Zero values select the defaults.
type Options struct {
	States          []models.StateOption
	ErrorTTL        time.Duration
	SuccessTTL      time.Duration
	SummaryDebounce time.Duration
	Logger          *zap.Logger
}

// Pipeline runs the collect, validate, submit, render cycle for one form
type Pipeline struct {
	view      View
	predictor Predictor
	states    []models.StateOption
	log       *zap.Logger

	errorTTL   time.Duration
	successTTL time.Duration
	debouncer  *Debouncer

	busy atomic.Bool

	mu           sync.Mutex
	notices      map[NoticeKind]*activeNotice
	nextNoticeID uint64
}

// New creates a pipeline bound to view and predictor
func New(view View, predictor Predictor, opts Options) *Pipeline {
	p := &Pipeline{
		view:       view,
		predictor:  predictor,
		states:     opts.States,
		log:        opts.Logger,
		errorTTL:   opts.ErrorTTL,
		successTTL: opts.SuccessTTL,
		debouncer:  NewDebouncer(opts.SummaryDebounce),
		notices:    make(map[NoticeKind]*activeNotice),
	}
	if len(p.states) == 0 {
		p.states = DefaultStates
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.errorTTL <= 0 {
		p.errorTTL = DefaultErrorTTL
	}
	if p.successTTL <= 0 {
		p.successTTL = DefaultSuccessTTL
	}
	return p
}

// States returns the selectable regions
func (p *Pipeline) States() []models.StateOption {
	return p.states
}

// Bind registers the pipeline's handlers on src and renders the initial
// summary. Submit events are ignored while a submission is in flight; this
// is a best-effort gate, direct Submit calls are not blocked.
func (p *Pipeline) Bind(ctx context.Context, src EventSource) {
	for _, f := range Fields {
		src.OnInput(f, func() {
			p.debouncer.Debounce(p.RecomputeSummary)
		})
	}
	src.OnSubmit(func() {
		if p.Busy() {
			p.log.Debug("submit ignored while busy")
			return
		}
		// Outcome is already on the view as a notice.
		_, _ = p.Submit(ctx)
	})
	src.OnReset(p.Reset)

	p.RecomputeSummary()
}

// Busy reports whether a submission is in flight
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Summary computes the summary of the current fields without rendering it
func (p *Pipeline) Summary() DisplaySummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Summarize(p.view.Values(), p.states)
}

// RecomputeSummary refreshes the summary shown on the view
func (p *Pipeline) RecomputeSummary() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.SetSummary(Summarize(p.view.Values(), p.states))
}

// Submit validates the current fields, sends exactly one request when they
// are valid, and renders the outcome. The returned error is one of
// *ValidationError, *ServerReportedError or *TransportError. The busy state
// is cleared on every return path.
func (p *Pipeline) Submit(ctx context.Context) (*Result, error) {
	p.setBusy(true)
	defer p.setBusy(false)

	p.mu.Lock()
	values := p.view.Values()
	p.mu.Unlock()

	input, err := Validate(values, p.states)
	if err != nil {
		p.ShowError(UserMessage(err))
		return nil, err
	}

	req := input.Request()
	p.log.Debug("sending prediction request",
		zap.String("rd_spend", string(req.RDSpend)),
		zap.String("administration", string(req.Administration)),
		zap.String("marketing_spend", string(req.MarketingSpend)),
		zap.String("state", req.State),
	)

	resp, err := p.predictor.Predict(ctx, req)
	if err == nil && resp == nil {
		err = ErrMalformedResponse
	}
	if err != nil {
		terr := &TransportError{Cause: err}
		p.log.Error("prediction request failed", zap.Error(err))
		p.ShowError(MsgNetworkError)
		return nil, terr
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = MsgPredictionFailed
		}
		p.log.Info("prediction rejected by service", zap.String("error", msg))
		p.ShowError(msg)
		return nil, &ServerReportedError{Message: msg}
	}

	if resp.Prediction == nil && resp.Formatted == "" {
		p.log.Error("prediction response malformed", zap.Error(ErrMalformedResponse))
		p.ShowError(MsgNetworkError)
		return nil, &TransportError{Cause: ErrMalformedResponse}
	}

	result := &Result{Formatted: resp.Formatted, Display: resp.Formatted}
	if resp.Prediction != nil {
		result.Prediction = *resp.Prediction
	}
	if result.Display == "" {
		result.Display = currency.Format(result.Prediction)
	}

	p.mu.Lock()
	p.view.SetPrediction(result.Display)
	p.view.SetResultsVisible(true)
	p.view.RevealResults()
	p.mu.Unlock()

	p.ShowSuccess(MsgPredictionSuccess)
	p.log.Info("prediction displayed", zap.String("prediction", result.Display))
	return result, nil
}

// Reset clears the form and returns every display to its zero state
func (p *Pipeline) Reset() {
	p.debouncer.Cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.view.SetValues(Values{})
	p.view.SetSummary(Summarize(Values{}, p.states))
	p.view.SetResultsVisible(false)
	p.view.SetPrediction(currency.Zero)
}

// Close stops pending notice timers and debounced work
func (p *Pipeline) Close() {
	p.debouncer.Cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.notices {
		a.timer.Stop()
	}
}

func (p *Pipeline) setBusy(busy bool) {
	p.busy.Store(busy)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.SetBusy(busy)
}
