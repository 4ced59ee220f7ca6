package utils

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = DefaultReadTimeout
	DefaultShutdownTimeout = 30 * time.Second

	gracefulEnvKey   = "FOLIO_GRACEFUL"
	gracefulEnvValue = gracefulEnvKey + "=1"
	gracefulFD       = 3
)

// Server wraps http.Server with signal-driven graceful shutdown and, on SIGUSR2, a
// zero-downtime restart that hands the listening socket to a re-executed binary.
type Server struct {
	*http.Server

	listener        net.Listener
	inherit         bool
	shutdownTimeout time.Duration
	done            chan struct{}
}

// NewServer creates a Server with the given handler and timeouts.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
		},
		inherit:         os.Getenv(gracefulEnvKey) != "",
		shutdownTimeout: DefaultShutdownTimeout,
		done:            make(chan struct{}),
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains connections.
func (srv *Server) Run(ctx context.Context) error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go srv.watch(ctx)

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-srv.done
	return nil
}

func (srv *Server) listen() (net.Listener, error) {
	if srv.inherit {
		ln, err := net.FileListener(os.NewFile(gracefulFD, ""))
		return ln, errors.Wrap(err, "inherit listener")
	}
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	return ln, errors.Wrapf(err, "listen on %s", addr)
}

func (srv *Server) watch(ctx context.Context) {
	restart := make(chan os.Signal, 1)
	signal.Notify(restart, syscall.SIGUSR2)
	defer signal.Stop(restart)

	for {
		select {
		case <-ctx.Done():
			Sugar.Info("shutdown requested, draining HTTP server")
			srv.shutdown()
			return
		case <-restart:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			pid, err := srv.fork()
			if err != nil {
				Sugar.Errorf("restart failed, continuing to serve: %v", err)
				continue
			}
			Sugar.Infof("new process started pid=%d, draining old server", pid)
			srv.shutdown()
			return
		}
	}
}

func (srv *Server) shutdown() {
	defer close(srv.done)
	ctx, cancel := context.WithTimeout(context.Background(), srv.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
		return
	}
	Sugar.Info("HTTP server shutdown complete")
}

// fork re-executes the binary with the listener passed as fd 3.
func (srv *Server) fork() (int, error) {
	tcp, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not a TCP listener")
	}
	file, err := tcp.File()
	if err != nil {
		return 0, errors.Wrap(err, "listener file")
	}
	defer file.Close()

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvValue)

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	return pid, errors.Wrap(err, "fork exec")
}

// GraceServer serves handler on addr until ctx ends or the process is signalled.
func GraceServer(ctx context.Context, addr string, handler http.Handler) error {
	return NewServer(addr, handler, DefaultReadTimeout, DefaultWriteTimeout).Run(ctx)
}
