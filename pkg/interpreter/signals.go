package interpreter

import "lorgn/interpreter-go/pkg/runtime"

// Evaluation produces a value, or one of the two signals below on the error
// channel. Signals pass through blocks, conditions and call arguments
// untouched until a loop (break) or a function boundary (return) consumes
// them.

type breakSignal struct {
	value runtime.Value
}

func (b breakSignal) Error() string {
	return "break"
}

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}
