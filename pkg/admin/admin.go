// Package admin is the cascade-node admin HTTP server: metrics, pprof,
// liveness/readiness, grounded directly on the teacher's pkg/admin.
package admin

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry abstracts the actor runtime state the /ready endpoint
// reports on, so this package doesn't import pkg/actor directly.
type Registry interface {
	ActorCount() int
}

type handler struct {
	promHandler http.Handler
	enablePprof bool
	registry    Registry
}

// NewServer returns an initialized *http.Server listening on addr,
// serving /metrics, /ping, /ready and, if enablePprof, /debug/pprof/*.
func NewServer(addr string, enablePprof bool, registry Registry) *http.Server {
	h := &handler{
		promHandler: promhttp.Handler(),
		enablePprof: enablePprof,
		registry:    registry,
	}

	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	debugPathPrefix := "/debug/pprof/"
	if h.enablePprof && strings.HasPrefix(req.URL.Path, debugPathPrefix) {
		switch req.URL.Path {
		case fmt.Sprintf("%scmdline", debugPathPrefix):
			pprof.Cmdline(w, req)
		case fmt.Sprintf("%sprofile", debugPathPrefix):
			pprof.Profile(w, req)
		case fmt.Sprintf("%strace", debugPathPrefix):
			pprof.Trace(w, req)
		case fmt.Sprintf("%ssymbol", debugPathPrefix):
			pprof.Symbol(w, req)
		default:
			pprof.Index(w, req)
		}
		return
	}
	switch req.URL.Path {
	case "/metrics":
		h.promHandler.ServeHTTP(w, req)
	case "/ping":
		h.servePing(w)
	case "/ready":
		h.serveReady(w)
	default:
		http.NotFound(w, req)
	}
}

func (h *handler) servePing(w http.ResponseWriter) {
	w.Write([]byte("pong\n"))
}

func (h *handler) serveReady(w http.ResponseWriter) {
	count := 0
	if h.registry != nil {
		count = h.registry.ActorCount()
	}
	fmt.Fprintf(w, "ok %d actors\n", count)
}
