package cmd

import (
	"expvar"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// progress is published once per process; each monitor replaces its entries
var (
	progressOnce sync.Once
	progress     *expvar.Map
)

func progressMap() *expvar.Map {
	progressOnce.Do(func() {
		progress = expvar.NewMap("gibbs-progress")
	})
	return progress
}

func expvarFloat(f float64) *expvar.Float {
	v := new(expvar.Float)
	v.Set(f)
	return v
}

type monitor struct {
	info     *expvar.Map
	stopped  chan struct{}
	server   *http.Server
	listener net.Listener

	BurnIn       *expvar.Int
	Chains       *expvar.Int
	MaxIters     *expvar.Int
	RunTime      *expvar.Float
	TotalSamples *expvar.Int
	Iterations   *expvar.Int // Sweeps completed across all chains
	LastESS      *expvar.Map // Total ESS per component
}

// Start begins the monitor on addr (host:port, port 0 picks a free one)
func (m *monitor) Start(addr string) error {
	if m.info != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "Could not listen on %s for monitor", addr)
	}

	m.info = progressMap()
	m.stopped = make(chan struct{})
	m.listener = ln

	m.BurnIn = new(expvar.Int)
	m.Chains = new(expvar.Int)
	m.MaxIters = new(expvar.Int)
	m.RunTime = new(expvar.Float)
	m.TotalSamples = new(expvar.Int)
	m.Iterations = new(expvar.Int)
	m.LastESS = new(expvar.Map).Init()

	m.info.Set("Burn-In", m.BurnIn)
	m.info.Set("Chain-Count", m.Chains)
	m.info.Set("Max-Iterations", m.MaxIters)
	m.info.Set("Run-Time", m.RunTime)
	m.info.Set("Total-Samples", m.TotalSamples)
	m.info.Set("Iterations", m.Iterations)
	m.info.Set("Last-ESS", m.LastESS)

	// Help the user and redirect to the only thing currently available:
	// the handler from the expvar package
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})
	m.server = &http.Server{Handler: mux}

	// Actual server that will close the stopped channel on exit
	go func() {
		defer close(m.stopped)
		m.server.Serve(ln)
	}()

	fmt.Fprintf(os.Stderr, "HTTP now available at %v (see debug/vars/)\n", m.Addr())
	return nil
}

// Addr is the address the monitor is listening on
func (m *monitor) Addr() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

// Stop shuts down the HTTP server
func (m *monitor) Stop() {
	if m.info == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		fmt.Fprintf(os.Stderr, "HTTP Info Stopped\n")
	case <-time.After(2 * time.Second):
		fmt.Fprintf(os.Stderr, "HTTP would NOT stop: just continuing on\n")
	}
}
