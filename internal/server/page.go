package server

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/profit-predictor/internal/client"
	"github.com/kartoza/profit-predictor/internal/config"
	"github.com/kartoza/profit-predictor/internal/currency"
	"github.com/kartoza/profit-predictor/internal/form"
	"github.com/kartoza/profit-predictor/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageHandler renders the prediction form. Every request builds its own
// pipeline over an in-memory view and renders what the view ends up holding.
type pageHandler struct {
	tmpl      *template.Template
	predictor form.Predictor
	opts      form.Options
	version   string
	logger    *zap.Logger
}

type stateChoice struct {
	Value    string
	Label    string
	Selected bool
}

type noticeView struct {
	Kind    form.NoticeKind
	Message template.HTML
	TTL     int64
}

type pageData struct {
	Version        string
	Action         string
	States         []stateChoice
	Values         form.Values
	Summary        form.DisplaySummary
	Prediction     string
	ResultsVisible bool
	Reveal         bool
	Notices        []noticeView
}

func newPageHandler(cfg config.Config, logger *zap.Logger) (*pageHandler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money": currency.Format,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &pageHandler{
		tmpl:      tmpl,
		predictor: client.New(cfg.PredictEndpoint(), cfg.Form.RequestTimeout, logger),
		opts: form.Options{
			States:     form.DefaultStates,
			ErrorTTL:   cfg.Form.ErrorNoticeTTL,
			SuccessTTL: cfg.Form.SuccessNoticeTTL,
			Logger:     logger,
		},
		version: cfg.Version,
		logger:  logger,
	}, nil
}

// RegisterRoutes mounts the page routes on r
func (h *pageHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/", h.handleSubmit).Methods("POST")
	r.HandleFunc("/reset", h.handleReset).Methods("POST")
	r.HandleFunc("/summary", h.handleSummary).Methods("GET")
}

func (h *pageHandler) newPipeline(values form.Values) (*form.Pipeline, *form.StateView) {
	view := form.NewStateView(values)
	view.SetPrediction(currency.Zero)
	p := form.New(view, h.predictor, h.opts)
	p.RecomputeSummary()
	return p, view
}

func (h *pageHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, view := h.newPipeline(form.Values{})
	defer p.Close()
	h.render(w, "index.html", p, view)
}

func (h *pageHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	p, view := h.newPipeline(valuesFrom(r.PostForm.Get))
	defer p.Close()

	_, err := p.Submit(r.Context())
	metrics.FormSubmissions.WithLabelValues(submissionOutcome(err)).Inc()
	h.render(w, "index.html", p, view)
}

func (h *pageHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	p, view := h.newPipeline(form.Values{})
	defer p.Close()
	p.Reset()
	h.render(w, "index.html", p, view)
}

// handleSummary renders only the summary panel for the query values
func (h *pageHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := form.Summarize(valuesFrom(r.URL.Query().Get), h.opts.States)

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "summary", summary); err != nil {
		h.logger.Error("failed to render summary", zap.Error(err))
		http.Error(w, "Failed to render summary", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *pageHandler) render(w http.ResponseWriter, name string, p *form.Pipeline, view *form.StateView) {
	state := view.Snapshot()

	data := pageData{
		Version:        h.version,
		Values:         state.Values,
		Summary:        state.Summary,
		Prediction:     state.Prediction,
		ResultsVisible: state.ResultsVisible,
		Reveal:         state.Reveals > 0,
	}
	for _, s := range p.States() {
		data.States = append(data.States, stateChoice{
			Value:    s.Value,
			Label:    s.Label,
			Selected: s.Value == state.Values.State,
		})
	}
	for _, n := range p.Notices() {
		data.Notices = append(data.Notices, noticeView{
			Kind:    n.Kind,
			Message: sanitizeNotice(n.Message),
			TTL:     h.noticeTTL(n.Kind).Milliseconds(),
		})
	}

	// Render to a buffer so template errors never produce half a page
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *pageHandler) noticeTTL(kind form.NoticeKind) time.Duration {
	if kind == form.NoticeSuccess {
		if h.opts.SuccessTTL > 0 {
			return h.opts.SuccessTTL
		}
		return form.DefaultSuccessTTL
	}
	if h.opts.ErrorTTL > 0 {
		return h.opts.ErrorTTL
	}
	return form.DefaultErrorTTL
}

func valuesFrom(get func(string) string) form.Values {
	return form.Values{
		RDSpend:        get(string(form.FieldRDSpend)),
		Administration: get(string(form.FieldAdministration)),
		MarketingSpend: get(string(form.FieldMarketingSpend)),
		State:          get(string(form.FieldState)),
	}
}

func submissionOutcome(err error) string {
	var (
		verr *form.ValidationError
		serr *form.ServerReportedError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &verr):
		return metrics.OutcomeInvalid
	case errors.As(err, &serr):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
