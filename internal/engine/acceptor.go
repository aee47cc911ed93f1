package engine

import (
	"context"
	"crypto/tls"
	"net"
	"sync"

	"github.com/kirinldap/kirin/internal/logging"
)

// Acceptor is the external boundary SPEC_FULL §6 names: something that
// supplies the engine with an already-connected, possibly-TLS-wrapped
// Transport plus a configuration bag, starts one dispatcher per
// connection, and joins them on shutdown. The core has no opinion on
// how connections are accepted; TCPAcceptor below is one legitimate
// implementation, not the only one.
type Acceptor interface {
	Serve(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// TCPAcceptor is a reference Acceptor: it listens on a TCP address,
// optionally wraps accepted connections in TLS, and runs one
// Connection.Serve per accepted transport, tracked in a WaitGroup so
// Shutdown can wait for in-flight connections to close (each one's
// Serve to return) before returning.
type TCPAcceptor struct {
	Addr      string
	TLSConfig *tls.Config
	Config    *Config
	Logger    logging.Logger

	listener net.Listener
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Serve opens the listener and accepts connections until ctx is
// cancelled or Shutdown is called. Each accepted connection gets its
// own Connection and its own goroutine running Serve.
func (a *TCPAcceptor) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Addr)
	if err != nil {
		return err
	}
	a.listener = ln

	logger := a.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	go func() {
		<-ctx.Done()
		a.Shutdown(context.Background())
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			a.mu.Lock()
			closed := a.closed
			a.mu.Unlock()
			if closed {
				return nil
			}
			return err
		}

		if a.TLSConfig != nil {
			conn = tls.Server(conn, a.TLSConfig)
		}

		a.wg.Add(1)
		go func(c net.Conn) {
			defer a.wg.Done()
			defer c.Close()

			peer := c.RemoteAddr().String()
			connection := NewConnection(c, peer, a.Config)
			connection.Logger().Info("accept")
			connection.Serve(ctx)
			connection.Logger().Info("close")
		}(conn)
	}
}

// Shutdown stops accepting new connections and waits for in-flight ones
// to finish, or for ctx to expire, whichever comes first.
func (a *TCPAcceptor) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	if a.listener != nil {
		a.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
