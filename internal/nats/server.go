// Package nats runs the embedded JetStream server that stores run history.
package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Bus bundles the embedded server, its connection and the run stream.
type Bus struct {
	Server    *server.Server
	Conn      *nats.Conn
	JetStream jetstream.JetStream
	Stream    jetstream.Stream
}

// Open starts an in-process JetStream server storing its data in dataDir and
// ensures the run stream exists. Close must be called to release it.
func Open(ctx context.Context, dataDir string) (*Bus, error) {
	b := &Bus{}

	var err error
	if b.Server, err = startServer(dataDir); err != nil {
		return nil, fmt.Errorf("starting embedded NATS: %w", err)
	}
	if b.Conn, err = nats.Connect("", nats.InProcessServer(b.Server)); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	if b.JetStream, err = jetstream.New(b.Conn); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}
	if b.Stream, err = SetupStream(ctx, b.JetStream); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("setting up stream: %w", err)
	}
	return b, nil
}

func startServer(dataDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server with data dir: %s", dataDir)

	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready within %s", readyTimeout)
	}
	return ns, nil
}

// Close drains the connection and stops the server. A wedged server never
// blocks longer than the shutdown timeout.
func (b *Bus) Close() error {
	if b == nil {
		return nil
	}

	if b.Conn != nil {
		if err := waitFor(drainTimeout, b.Conn.Drain); err != nil {
			logger.Warn("NATS drain failed, forcing close: %v", err)
			b.Conn.Close()
		}
	}

	if b.Server != nil {
		b.Server.Shutdown()
		err := waitFor(shutdownTimeout, func() error {
			b.Server.WaitForShutdown()
			return nil
		})
		if err != nil {
			logger.Error("NATS server shutdown: %v", err)
			return err
		}
		logger.Debug("NATS server shut down cleanly")
	}
	return nil
}

var errTimeout = errors.New("timed out")

// waitFor runs fn in the background and returns its error, or errTimeout if
// it does not finish within d.
func waitFor(d time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-time.After(d):
		return fmt.Errorf("after %s: %w", d, errTimeout)
	}
}
