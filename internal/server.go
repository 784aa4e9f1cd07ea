package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultAddress           = ":8080"
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// RunOption configures App.Run.
type RunOption func(*server)

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return func(s *server) {
		if l != nil {
			s.log = l
		}
	}
}

// ShutdownTimeout bounds graceful shutdown, hooks included. Defaults to 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(s *server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// ShutdownHook registers fn to run after the server stops accepting
// requests. Hooks run in registration order and share the shutdown deadline.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(s *server) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

// OnListen registers a callback that receives the bound address once the
// listener is open. Useful with ":0" addresses.
func OnListen(fn func(net.Addr)) RunOption {
	return func(s *server) {
		s.onListen = fn
	}
}

// WithContext sets the base context. Cancelling it shuts the server down.
func WithContext(ctx context.Context) RunOption {
	return func(s *server) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// server runs an http.Server until a signal or context cancellation.
type server struct {
	ctx             context.Context
	log             *slog.Logger
	onListen        func(net.Addr)
	hooks           []func(context.Context) error
	shutdownTimeout time.Duration
}

func newServer(log *slog.Logger, opts ...RunOption) *server {
	s := &server{
		ctx:             context.Background(),
		log:             log,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *server) run(addr string, h http.Handler) error {
	if addr == "" {
		addr = defaultAddress
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if s.onListen != nil {
		s.onListen(ln.Addr())
	}

	served := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("address", ln.Addr().String()))
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		served <- err
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	return s.shutdown(srv)
}

func (s *server) shutdown(srv *http.Server) error {
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	errs := []error{srv.Shutdown(ctx)}
	for _, hook := range s.hooks {
		if err := hook(ctx); err != nil {
			s.log.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("shutdown completed with errors")
		return err
	}
	s.log.Info("shutdown completed")
	return nil
}
