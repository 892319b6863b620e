package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/pseudonymizer/internal/config"
)

// fakeListener blocks in Start until Shutdown, or fails immediately with startErr.
type fakeListener struct {
	startErr  error
	stopped   chan struct{}
	shutdowns atomic.Int32
}

func newFakeListener(startErr error) *fakeListener {
	return &fakeListener{startErr: startErr, stopped: make(chan struct{})}
}

func (f *fakeListener) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeListener) Shutdown(ctx context.Context) error {
	if f.shutdowns.Add(1) == 1 {
		close(f.stopped)
	}
	return nil
}

func TestServe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{ShutdownTimeout: time.Second}

	t.Run("stops-all-listeners-on-cancel", func(t *testing.T) {
		api, metricsListener := newFakeListener(nil), newFakeListener(nil)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- serve(ctx, []listener{api, metricsListener}, cfg, logger) }()

		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after cancellation")
		}
		assert.Equal(t, int32(1), api.shutdowns.Load())
		assert.Equal(t, int32(1), metricsListener.shutdowns.Load())
	})

	t.Run("one-failure-stops-the-others", func(t *testing.T) {
		startErr := errors.New("address already in use")
		api, metricsListener := newFakeListener(nil), newFakeListener(startErr)

		err := serve(context.Background(), []listener{api, metricsListener}, cfg, logger)

		assert.ErrorIs(t, err, startErr)
		assert.Equal(t, int32(1), api.shutdowns.Load())
	})
}

func TestRunServer_RejectsInvalidConfiguration(t *testing.T) {
	err := RunServer(context.Background(), &config.Config{ServerPort: 8080, CipherAlgorithm: "rot13"}, "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "CipherAlgorithm")
}
