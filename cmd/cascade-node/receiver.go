package main

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/cascadedb/cascade/pkg/actor"
	"github.com/cascadedb/cascade/pkg/stream"
	"github.com/cascadedb/cascade/pkg/streampb"
)

// dispatchReceiver implements streampb.DispatchServer: it decodes each
// inbound Envelope and hands the Message to the local actor input
// addressed by Envelope.TargetActor, bridging the remote transport edge
// into the same SharedContext a local dispatcher would write through.
type dispatchReceiver struct {
	shared *actor.SharedContext
}

func (r *dispatchReceiver) Dispatch(stream_ streampb.DispatchService_DispatchServer) error {
	ctx := stream_.Context()
	for {
		env, err := stream_.Recv()
		if err == io.EOF {
			return stream_.SendAndClose(&streampb.Ack{Accepted: true})
		}
		if err != nil {
			return err
		}

		msg, err := stream.DecodeEnvelope(env)
		if err != nil {
			log.WithError(err).Error("dropping malformed remote envelope")
			continue
		}

		out := r.shared.ResolveOutput(stream.ActorID(env.TargetActor))
		if err := out.Send(ctx, msg); err != nil {
			log.WithError(err).WithField("actor", env.TargetActor).Error("failed to deliver remote message locally")
		}
	}
}
