// Package interpreter walks lorgn syntax trees. Function bodies run in a
// closed frame that sees only their parameters and locals; loops run until a
// break escapes the body; returns unwind to the nearest function call. Calls
// resolve through a runtime.Registry and every failure surfaces as a
// *RuntimeError wrapping one of the runtime error types.
package interpreter
