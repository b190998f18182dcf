package form

import "sync"

// StateView is a View that keeps the rendered state in memory. Surfaces that
// render after the fact (the HTML page, the terminal) embed it and read the
// state back with Snapshot.
type StateView struct {
	mu    sync.Mutex
	state ViewState
}

// ViewState is what a StateView currently shows
type ViewState struct {
	Values         Values
	Busy           bool
	Summary        DisplaySummary
	Prediction     string
	ResultsVisible bool
	Reveals        int
	Notices        []Notice
}

// NewStateView creates a view pre-filled with values
func NewStateView(values Values) *StateView {
	return &StateView{state: ViewState{Values: values}}
}

// Snapshot returns a copy of the current state
func (v *StateView) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Notices = append([]Notice(nil), v.state.Notices...)
	return s
}

// SetField changes one input as a user would
func (v *StateView) SetField(f Field, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Values = v.state.Values.With(f, value)
}

func (v *StateView) Values() Values {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Values
}

func (v *StateView) SetValues(values Values) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Values = values
}

func (v *StateView) SetBusy(busy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Busy = busy
}

func (v *StateView) SetSummary(s DisplaySummary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Summary = s
}

func (v *StateView) SetPrediction(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Prediction = text
}

func (v *StateView) SetResultsVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.ResultsVisible = visible
}

func (v *StateView) RevealResults() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Reveals++
}

// ShowNotice inserts n at the top, above older notices
func (v *StateView) ShowNotice(n Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Notices = append([]Notice{n}, v.state.Notices...)
}

func (v *StateView) RemoveNotice(n Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.state.Notices[:0]
	for _, cur := range v.state.Notices {
		if cur.ID != n.ID {
			kept = append(kept, cur)
		}
	}
	v.state.Notices = kept
}
