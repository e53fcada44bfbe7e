package executor

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/cascadedb/cascade/pkg/stream"
)

// recordingOutput is a minimal stream.Output fake, grounded on the
// teacher's hand-written test fakes rather than a mocking framework.
type recordingOutput struct {
	actorID stream.ActorID
	sent    []stream.Message
}

func (o *recordingOutput) ActorID() stream.ActorID { return o.actorID }
func (o *recordingOutput) Send(ctx context.Context, msg stream.Message) error {
	o.sent = append(o.sent, msg)
	return nil
}
func (o *recordingOutput) Close() error { return nil }

// fakeResolver resolves every actor id to a recordingOutput, creating it
// lazily and remembering it so tests can inspect what was sent.
type fakeResolver struct {
	outs map[stream.ActorID]*recordingOutput
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{outs: make(map[stream.ActorID]*recordingOutput)}
}

func (r *fakeResolver) ResolveOutput(actorID stream.ActorID) stream.Output {
	if o, ok := r.outs[actorID]; ok {
		return o
	}
	o := &recordingOutput{actorID: actorID}
	r.outs[actorID] = o
	return o
}

func testLogger() *log.Entry {
	l := log.New()
	l.SetLevel(log.PanicLevel) // keep test output quiet
	return log.NewEntry(l)
}
