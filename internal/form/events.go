package form

import "sync"

// Events is an in-process EventSource. Surfaces call Input, Submit and Reset
// when the user acts; each call runs the registered handlers synchronously.
type Events struct {
	mu     sync.Mutex
	input  map[Field][]func()
	submit []func()
	reset  []func()
}

// NewEvents creates an empty event source
func NewEvents() *Events {
	return &Events{input: make(map[Field][]func())}
}

func (e *Events) OnInput(field Field, handler func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input[field] = append(e.input[field], handler)
}

func (e *Events) OnSubmit(handler func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submit = append(e.submit, handler)
}

func (e *Events) OnReset(handler func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset = append(e.reset, handler)
}

// Input fires the input/change handlers of field
func (e *Events) Input(field Field) {
	e.mu.Lock()
	handlers := append([]func(){}, e.input[field]...)
	e.mu.Unlock()
	fire(handlers)
}

// Submit fires the submit handlers
func (e *Events) Submit() {
	e.mu.Lock()
	handlers := append([]func(){}, e.submit...)
	e.mu.Unlock()
	fire(handlers)
}

// Reset fires the reset handlers
func (e *Events) Reset() {
	e.mu.Lock()
	handlers := append([]func(){}, e.reset...)
	e.mu.Unlock()
	fire(handlers)
}

func fire(handlers []func()) {
	for _, h := range handlers {
		h()
	}
}
