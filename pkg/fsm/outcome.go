package fsm

// Outcome is the result of an entry action: either halt with a final context,
// or continue to a named state with the context that state should receive.
//
// The zero Outcome halts with the zero context.
type Outcome[S comparable, C any] struct {
	next    S
	hasNext bool
	value   C
}

// Halt ends the run; c becomes the value returned by Start.
func Halt[S comparable, C any](c C) Outcome[S, C] {
	return Outcome[S, C]{value: c}
}

// Goto continues the run in state next, handing it c.
func Goto[S comparable, C any](next S, c C) Outcome[S, C] {
	return Outcome[S, C]{next: next, hasNext: true, value: c}
}

// Next returns the requested state and true, or the zero state and false for a halt.
func (o Outcome[S, C]) Next() (S, bool) {
	return o.next, o.hasNext
}

// Context returns the context carried by the outcome.
func (o Outcome[S, C]) Context() C {
	return o.value
}

// Halted reports whether the outcome ends the run.
func (o Outcome[S, C]) Halted() bool {
	return !o.hasNext
}
