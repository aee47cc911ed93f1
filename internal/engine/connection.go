package engine

import (
	"bufio"
	"io"
	"sync"

	"go.uber.org/atomic"

	"github.com/kirinldap/kirin/internal/logging"
)

// State is the connection's coarse lifecycle state, per SPEC_FULL §4.5's
// state machine.
type State int

const (
	StateUnbound State = iota
	StateBound
	StateClosed
)

// Transport is the byte stream an Acceptor hands the engine: a
// blocking, bidirectional connection, TLS-wrapped or not. The core
// treats both identically per §6.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Stats holds process-wide connection counters, incremented by the
// engine when a Config carries one: Serve counts open connections and
// Unbinds, handleBind counts Binds, and the search worker counts
// Searches. Recording is entirely optional: a nil *Stats on a Config
// disables it.
type Stats struct {
	Connections atomic.Int64
	Binds       atomic.Int64
	Unbinds     atomic.Int64
	Searches    atomic.Int64
}

// NewStats returns a zero-valued Stats, ready to use.
func NewStats() *Stats {
	return &Stats{}
}

// Config is the configuration bag SPEC_FULL §6 describes: the handler
// factory, its extra arguments, the schema object forwarded to handlers
// opaquely, the naming contexts the server claims to serve, and the
// logger sink. TLS parameters live one layer up, in the Acceptor that
// terminates TLS before handing the engine a Transport.
type Config struct {
	HandlerFactory HandlerFactory
	OperationArgs  interface{}
	Schema         interface{}
	NamingContexts []string
	Logger         logging.Logger
	Stats          *Stats
}

// Connection owns everything SPEC_FULL §3 lists: the transport, the
// write serializer, the active-request table, the bound identity, the
// negotiated protocol version, the configuration bag, and a logger. It
// is created when a transport is accepted and destroyed when Serve
// returns.
type Connection struct {
	transport Transport
	reader    *bufio.Reader
	writer    *Writer
	config    *Config
	logger    logging.Logger
	peerAddr  string
	requestID string

	activeReqs *ActiveRequestTable

	mu      sync.Mutex
	state   State
	bindDN  string
	version int
}

// NewConnection wraps an already-accepted transport. peerAddr is used
// only for logging (per §6's "Log format").
func NewConnection(transport Transport, peerAddr string, config *Config) *Connection {
	requestID := logging.GenerateRequestID()
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Connection{
		transport:  transport,
		reader:     bufio.NewReader(transport),
		writer:     NewWriter(transport),
		config:     config,
		logger:     logger.WithRequestID(requestID).WithFields("peer", peerAddr),
		peerAddr:   peerAddr,
		requestID:  requestID,
		activeReqs: NewActiveRequestTable(),
		state:      StateUnbound,
		version:    3,
	}
}

// PeerAddr returns the remote address recorded at accept time.
func (c *Connection) PeerAddr() string { return c.peerAddr }

// RequestID returns the per-connection correlation ID assigned at
// accept time.
func (c *Connection) RequestID() string { return c.requestID }

// Logger returns the connection-scoped logger, already carrying the
// request ID and peer address fields.
func (c *Connection) Logger() logging.Logger { return c.logger }

// BindDN returns the current bound distinguished name, or "" for
// anonymous.
func (c *Connection) BindDN() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindDN
}

// Version returns the negotiated protocol version (3, unless a
// successful Bind changed it).
func (c *Connection) Version() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// State returns the connection's coarse lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) setBound(dn string, version int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindDN = dn
	c.version = version
	c.state = StateBound
}

func (c *Connection) setClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
}
