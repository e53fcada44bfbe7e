// Command cascade-node runs one node of the dispatch fabric: a
// SharedContext registry of local actor channels, an admin server, and a
// remote dispatch gRPC listener for cross-node edges. It starts no actor
// goroutines itself.
// Structured directly on the teacher's controller/cmd/destination
// binary: flag parsing, a background admin server, then a blocking
// serve loop torn down on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcprometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/cascadedb/cascade/pkg/actor"
	"github.com/cascadedb/cascade/pkg/admin"
	"github.com/cascadedb/cascade/pkg/flags"
	"github.com/cascadedb/cascade/pkg/stream/metrics"
	"github.com/cascadedb/cascade/pkg/streampb"
)

func main() {
	addr := flag.String("addr", ":7070", "address to serve remote dispatch gRPC on")
	metricsAddr := flag.String("metrics-addr", ":9996", "address to serve scrapable metrics and admin endpoints on")
	enablePprof := flag.Bool("enable-pprof", false, "enable pprof endpoints on the admin server")
	outputCapacity := flag.Int("output-capacity", 128, "bounded queue capacity for each local dispatcher output")
	sendTimeout := flag.Duration("send-timeout", 30*time.Second, "how long a full output queue waits before reporting a slow downstream (informational only; the send keeps suspending)")

	flags.ConfigureAndParse()

	m := metrics.NewSet(prometheus.DefaultRegisterer)
	shared := actor.NewSharedContext(*outputCapacity, *sendTimeout, m)

	adminServer := admin.NewServer(*metricsAddr, *enablePprof, shared)
	go func() {
		log.Infof("starting admin server on %s", *metricsAddr)
		if err := adminServer.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Infof("admin server closed (%s)", *metricsAddr)
			} else {
				log.Errorf("admin server error (%s): %s", *metricsAddr, err)
			}
		}
	}()

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %s", *addr, err)
	}

	grpcServer := grpc.NewServer(
		grpc.StreamInterceptor(grpcprometheus.StreamServerInterceptor),
	)
	grpcprometheus.Register(grpcServer)
	grpcServer.RegisterService(&streampb.ServiceDesc, &dispatchReceiver{shared: shared})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("starting remote dispatch gRPC server on %s", *addr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Errorf("remote dispatch server error: %s", err)
		}
	}()

	<-stop

	log.Infof("shutting down remote dispatch server on %s", *addr)
	grpcServer.GracefulStop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	adminServer.Shutdown(ctx)
}
