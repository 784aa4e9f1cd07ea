package internal_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weave/internal"
)

func TestRun(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/ping", func(c internal.Context) error { return c.String(http.StatusOK, "pong") })
	})))

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	hookCalled := make(chan struct{}, 1)
	errCh := make(chan error, 1)

	go func() {
		errCh <- app.Run("127.0.0.1:0",
			internal.WithContext(ctx),
			internal.OnListen(func(addr net.Addr) { addrCh <- addr }),
			internal.ShutdownTimeout(5*time.Second),
			internal.ShutdownHook(func(context.Context) error {
				hookCalled <- struct{}{}
				return nil
			}),
		)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/ping")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.Len(t, hookCalled, 1)
}

func TestRunListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = internal.New().Run(ln.Addr().String())
	require.Error(t, err)
}

func TestRunShutdownHookError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	hookErr := errors.New("flush failed")

	var order []int
	errCh := make(chan error, 1)
	go func() {
		errCh <- internal.New().Run("127.0.0.1:0",
			internal.WithContext(ctx),
			internal.OnListen(func(net.Addr) { cancel() }),
			internal.ShutdownHook(func(context.Context) error {
				order = append(order, 1)
				return hookErr
			}),
			internal.ShutdownHook(func(context.Context) error {
				order = append(order, 2)
				return nil
			}),
		)
	}()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, hookErr)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	require.Equal(t, []int{1, 2}, order)
}
