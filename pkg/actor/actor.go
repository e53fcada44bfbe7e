package actor

import (
	"context"
	"fmt"

	logging "github.com/sirupsen/logrus"

	"github.com/cascadedb/cascade/pkg/stream"
	"github.com/cascadedb/cascade/pkg/stream/executor"
)

// Actor is one cooperative task: it owns operator state (here, a
// DispatchExecutor) and runs a single-threaded loop over its input
// stream, suspending only at the channel receive and at each
// dispatcher's Output.Send (spec.md §5). Multiple actors run in
// parallel, each on its own goroutine.
type Actor struct {
	id       stream.ActorID
	input    <-chan stream.Message
	executor *executor.Executor
	log      *logging.Entry
}

// New constructs an Actor reading from input and dispatching through
// exec.
func New(id stream.ActorID, input <-chan stream.Message, exec *executor.Executor, log *logging.Entry) *Actor {
	return &Actor{
		id:       id,
		input:    input,
		executor: exec,
		log:      log.WithField("actor", id),
	}
}

// Run drives the actor until ctx is canceled, the input stream ends, or
// dispatch fails. A MalformedMutation or StateInconsistency panic
// (spec.md §7: coordinator-bug assertions, not user-data conditions) is
// recovered here and turned into a fatal actor exit, mirroring the
// teacher's log.Fatalf treatment of programmer-error conditions in
// cmd/destination/main.go without calling os.Exit from inside a runtime
// loop.
func (a *Actor) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actor %d: fatal: %v", a.id, r)
			a.log.WithField("panic", r).Error("actor aborting on assertion failure")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-a.input:
			if !ok {
				a.log.Debug("input stream closed, actor stopping")
				return nil
			}
			if derr := a.executor.Dispatch(ctx, msg); derr != nil {
				a.log.WithError(derr).Error("dispatch failed, actor aborting")
				return derr
			}
		}
	}
}
