// Package command implements the command executor: a dispatcher mapping
// opcode names to handlers, the handlers themselves, and the blocking
// runner for the commands that suspend until data arrives.
//
// The single external contract is Executor.Execute: given a decoded
// command vector it returns one decoded reply. Every handler runs as one
// atomic transaction against the typed store; errors come back in-band
// as error replies, never as Go errors, except for the malformed (empty)
// command vector and caller cancellation of a blocking command.
package command
