/*
Package inet handles connecting to an irc server and reading and writing to
the connection. It owns the socket/TLS lifecycle, the serialized writer, the
background read loop and the keepalive timer.
*/
package inet

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"
)

// defaultKeepalive is how often the liveness probe is sent when the config
// does not say otherwise.
const defaultKeepalive = 120 * time.Second

var (
	// ErrNotConnected is returned by writes attempted while the client is
	// not in the Connected state.
	ErrNotConnected = errors.New("inet: not connected")
	// ErrFormatArgs is returned when a format's %s count does not match the
	// arguments supplied.
	ErrFormatArgs = errors.New("inet: wrong number of arguments for format")
	// errAlreadyConnected occurs when Connect is called before a previous
	// connection was torn down.
	errAlreadyConnected = errors.New("inet: already connected")
	// errConnectAborted occurs when Disconnect wins a race against a
	// connect attempt in flight.
	errConnectAborted = errors.New("inet: connect aborted")
)

// ConnState is the lifecycle state of a Client's transport.
type ConnState int

// Connection states. Reconnection always restarts from Disconnected; there
// is no Connected -> Connecting edge.
const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// ConnProvider transforms a "host:port" string into a net.Conn. It lets
// tests and tunnels stand in for net.Dial; when set it is responsible for
// the whole transport including any TLS.
type ConnProvider func(addr string) (net.Conn, error)

// Config carries the transport options for a Client.
type Config struct {
	// Addr is the host:port to dial.
	Addr string
	// SSL enables TLS with server certificate verification.
	SSL bool
	// NoVerifyCert accepts any server certificate.
	NoVerifyCert bool
	// TLSConfig, when set, is used wholesale instead of the generated one.
	// This is the hook for pinning-style validation policies.
	TLSConfig *tls.Config
	// ClientCert is presented to the server during the TLS handshake.
	ClientCert *tls.Certificate
	// Keepalive is the probe interval, defaultKeepalive when zero.
	Keepalive time.Duration
	// Provider overrides dialing when non-nil.
	Provider ConnProvider
}

// Client manages a single connection to a server. A connection instance is
// the socket, writer, reader and keepalive timer together; they are created
// together by Connect and destroyed together on the transition back to
// Disconnected. Nothing is reused across attempts.
type Client struct {
	cfg     Config
	logger  log15.Logger
	handler LineHandler

	// mut guards the state machine and the connection instance fields.
	mut      sync.Mutex
	state    ConnState
	gen      uint64
	conn     net.Conn
	writer   *bufio.Writer
	reader   *Reader
	keepdone chan struct{}
	notified bool

	// writeMut serializes access to the writer so concurrent callers cannot
	// interleave partial lines.
	writeMut sync.Mutex

	disconnects chan struct{}
}

// NewClient creates a disconnected client. The handler receives every line
// read off the wire and must be set before Connect.
func NewClient(cfg Config, handler LineHandler, logger log15.Logger) *Client {
	if cfg.Keepalive == 0 {
		cfg.Keepalive = defaultKeepalive
	}
	return &Client{
		cfg:         cfg,
		logger:      logger.New("addr", cfg.Addr),
		handler:     handler,
		disconnects: make(chan struct{}, 1),
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.state
}

// IsConnected checks whether the client is in the Connected state.
func (c *Client) IsConnected() bool {
	return c.State() == Connected
}

// Disconnects is the unexpected-disconnect notification channel. At most
// one notification is delivered per connection instance, no matter how many
// teardown paths race.
func (c *Client) Disconnects() <-chan struct{} {
	return c.disconnects
}

// Connect dials the configured address, negotiates TLS when requested, and
// on success starts the read loop and arms the keepalive timer. On any
// connect-phase failure the raw socket is closed and the state returns to
// Disconnected; no half-open TLS layer is left behind.
func (c *Client) Connect() error {
	c.mut.Lock()
	if c.state != Disconnected {
		c.mut.Unlock()
		return errAlreadyConnected
	}
	c.state = Connecting
	c.mut.Unlock()

	conn, err := c.dial()
	if err != nil {
		c.logger.Error("connect failed", "err", err)
		c.mut.Lock()
		c.state = Disconnected
		c.mut.Unlock()
		return err
	}

	c.mut.Lock()
	if c.state != Connecting {
		// Disconnect won the race while we were dialing.
		c.mut.Unlock()
		conn.Close()
		return errConnectAborted
	}

	c.gen++
	gen := c.gen
	c.conn = conn
	c.writer = bufio.NewWriter(conn)
	c.notified = false
	c.keepdone = make(chan struct{})
	c.reader = NewReader(conn, c.handler, func(err error) {
		c.teardown(gen, true)
	}, c.logger)
	c.state = Connected

	c.reader.Start()
	go c.keepaliveLoop(c.keepdone)
	c.mut.Unlock()

	c.logger.Info("connected")
	return nil
}

// dial opens the transport, delegating to the provider when one is set.
func (c *Client) dial() (net.Conn, error) {
	if c.cfg.Provider != nil {
		return c.cfg.Provider(c.cfg.Addr)
	}

	conn, err := net.Dial("tcp", c.cfg.Addr)
	if err != nil {
		return nil, errors.Wrapf(err, "inet: dialing %s", c.cfg.Addr)
	}
	if !c.cfg.SSL {
		return conn, nil
	}

	tlsConn := tls.Client(conn, c.tlsConfig())
	if err = tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "inet: tls handshake with %s", c.cfg.Addr)
	}
	return tlsConn, nil
}

// tlsConfig builds the handshake configuration. The default policy rejects
// on any chain error; NoVerifyCert trusts unconditionally; a caller-supplied
// TLSConfig replaces the policy wholesale.
func (c *Client) tlsConfig() *tls.Config {
	if c.cfg.TLSConfig != nil {
		return c.cfg.TLSConfig
	}

	host, _, err := net.SplitHostPort(c.cfg.Addr)
	if err != nil {
		host = c.cfg.Addr
	}
	conf := &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: c.cfg.NoVerifyCert,
	}
	if c.cfg.ClientCert != nil {
		conf.Certificates = []tls.Certificate{*c.cfg.ClientCert}
	}
	return conf
}

// Write formats a line and sends it. Substitution is positional: every %s
// in format consumes exactly one argument, and a mismatch in either
// direction fails with ErrFormatArgs before anything reaches the wire.
// Lines with literal percent signs go through WriteRaw instead.
func (c *Client) Write(format string, args ...string) error {
	if strings.Count(format, "%s") != len(args) {
		return errors.Wrap(ErrFormatArgs, format)
	}

	line := format
	if len(args) > 0 {
		ifaces := make([]interface{}, len(args))
		for i, a := range args {
			ifaces[i] = a
		}
		line = fmt.Sprintf(format, ifaces...)
	}
	return c.WriteRaw(line)
}

// WriteRaw sends a line verbatim, appending the CRLF terminator. The write
// is flushed synchronously before returning so callers observe backpressure
// rather than silent buffering. A write failure tears the connection down
// and raises the disconnect notification.
func (c *Client) WriteRaw(line string) error {
	c.mut.Lock()
	if c.state != Connected {
		c.mut.Unlock()
		return ErrNotConnected
	}
	gen := c.gen
	w := c.writer
	c.mut.Unlock()

	c.writeMut.Lock()
	_, err := w.WriteString(line + "\r\n")
	if err == nil {
		err = w.Flush()
	}
	c.writeMut.Unlock()

	if err != nil {
		c.logger.Error("write failed", "err", err)
		c.teardown(gen, true)
		return errors.Wrap(err, "inet: write failed")
	}

	c.logger.Debug("->", "line", line)
	return nil
}

// Disconnect idempotently tears down the current connection instance. When
// notify is true and no notification was raised yet for this instance, the
// disconnect notification fires exactly once.
func (c *Client) Disconnect(notify bool) {
	c.mut.Lock()
	gen := c.gen
	c.mut.Unlock()
	c.teardown(gen, notify)
}

// teardown destroys the connection instance identified by gen. The reader
// death path and explicit Disconnect calls both land here; the generation
// and state checks collapse concurrent or duplicate triggers into a single
// resource release and at most one notification.
func (c *Client) teardown(gen uint64, notify bool) {
	c.mut.Lock()
	if gen != c.gen || c.state == Disconnected {
		c.mut.Unlock()
		return
	}
	c.state = Disconnected

	conn := c.conn
	c.conn = nil
	c.writer = nil
	if c.reader != nil {
		c.reader.Stop()
		c.reader = nil
	}
	if c.keepdone != nil {
		close(c.keepdone)
		c.keepdone = nil
	}

	fire := notify && !c.notified
	if fire {
		c.notified = true
	}
	c.mut.Unlock()

	if conn != nil {
		// Closing the transport is what unblocks an in-flight read.
		conn.Close()
	}

	c.logger.Info("disconnected")
	if fire {
		select {
		case c.disconnects <- struct{}{}:
		default:
		}
	}
}

// keepaliveLoop sends a periodic liveness probe referencing the current
// time. Probe failures are logged, not propagated; a failed write already
// tears the connection down on its own.
func (c *Client) keepaliveLoop(done chan struct{}) {
	ticker := time.NewTicker(c.cfg.Keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probe := "PING :" + strconv.FormatInt(time.Now().Unix(), 10)
			if err := c.WriteRaw(probe); err != nil {
				c.logger.Warn("keepalive probe failed", "err", err)
				return
			}
		case <-done:
			return
		}
	}
}
