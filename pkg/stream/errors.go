package stream

import "errors"

// ErrChannelClosed is returned by Output.Send when the downstream
// disappeared. It is fatal to the dispatcher: the executor surfaces it
// upward and the actor dies; an external coordinator handles recovery
// (spec.md §7).
var ErrChannelClosed = errors.New("stream: output channel closed")

// ErrHashMappingDecode is returned when a Mutation's hash_mapping field
// fails to decode. Fatal like ErrChannelClosed.
var ErrHashMappingDecode = errors.New("stream: hash mapping decode error")

// MalformedMutationError indicates a coordinator bug: an unknown
// dispatcher id referenced by an Update, or a duplicate dispatcher id in
// an Add. Per spec.md §7 this can never be caused by user data, so
// callers are expected to panic on it rather than propagate it as a
// normal error.
type MalformedMutationError struct {
	Reason string
}

func (e *MalformedMutationError) Error() string {
	return "stream: malformed mutation: " + e.Reason
}

// StateInconsistencyError backs assertion panics such as "exactly one
// output for Simple.dispatch_data" (spec.md §7).
type StateInconsistencyError struct {
	Reason string
}

func (e *StateInconsistencyError) Error() string {
	return "stream: state inconsistency: " + e.Reason
}

// PanicMalformedMutation panics with a MalformedMutationError. Used at
// mutation-apply sites where the input can only be wrong if the
// coordinator itself is buggy.
func PanicMalformedMutation(reason string) {
	panic(&MalformedMutationError{Reason: reason})
}

// PanicStateInconsistency panics with a StateInconsistencyError.
func PanicStateInconsistency(reason string) {
	panic(&StateInconsistencyError{Reason: reason})
}
