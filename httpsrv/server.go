package httpsrv

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/imaneoujja/IMGFS/imgfs"
	"github.com/imaneoujja/IMGFS/stats"
	"github.com/imaneoujja/IMGFS/transport"
)

// Server owns the store, the listener, and the static route table, and is
// threaded through the accept loop to each per-connection worker (spec
// §9 "Global mutable state -> owned store"). Graceful shutdown closes the
// listener and then the store; it does not wait for in-flight workers.
type Server struct {
	Store     *imgfs.Store
	Stats     *stats.Runner
	IndexPath string

	ln         *transport.Listener
	acceptDone chan struct{}
}

// Start binds host:port and launches the accept loop on a new goroutine,
// returning once the listener is live. Used directly by tests that need
// to drive the server without also exercising the signal-based shutdown
// path; Run (below) is the production entry point.
func (srv *Server) Start(host string, port int) error {
	ln, err := transport.BindListen(host, port)
	if err != nil {
		return err
	}
	srv.ln = ln
	srv.acceptDone = make(chan struct{})

	srv.Store.OnDedupHit = srv.Stats.AddDedupHit
	srv.Store.OnLazyResize = srv.Stats.AddLazyResize

	go func() {
		defer close(srv.acceptDone)
		srv.acceptLoop()
	}()

	glog.Infof("imgfs: server listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound listener's address. Only valid after Start.
func (srv *Server) Addr() string { return srv.ln.Addr().String() }

// Shutdown closes the listener, waits for the accept loop to exit, then
// closes the store and flushes stats. It does not wait for workers that
// are still serving connections: a worker that touches the store after
// Shutdown gets a KindIO error from the closed file.
func (srv *Server) Shutdown() {
	srv.ln.Close()
	<-srv.acceptDone
	srv.Store.Close()
	srv.Stats.Flush()
}

// Run opens a listener on host:port, starts the accept loop, and blocks
// until SIGINT/SIGTERM. Signals are handled only on this (the calling)
// goroutine; workers never select on the signal channel and so never
// observe it (spec §5 "Cancellation").
func (srv *Server) Run(host string, port int) error {
	if err := srv.Start(host, port); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	glog.Infof("imgfs: shutdown signal received, closing listener")

	srv.Shutdown()
	glog.Flush()
	return nil
}

// acceptLoop runs on the goroutine Start launches, not on the goroutine
// that called Start or Run, and hands each accepted connection to a
// detached worker - no join, per spec §5 "Scheduling model".
func (srv *Server) acceptLoop() {
	for {
		conn, err := srv.ln.Accept()
		if err != nil {
			glog.Infof("imgfs: accept loop exiting: %v", err)
			return
		}
		glog.Infof("imgfs: accepted connection from %s", conn.RemoteAddr())
		go srv.serveConn(conn)
	}
}
