package client

import (
	"strings"
	"sync"
	"time"

	"github.com/telabyte/ircline/config"
	"github.com/telabyte/ircline/inet"
	"github.com/telabyte/ircline/irc"
	"gopkg.in/inconshreveable/log15.v2"
)

// Client supervises a single connection: it performs the registration
// handshake after every successful connect and retries forever, at a flat
// delay, after every unexpected disconnect.
type Client struct {
	cfg    *config.Config
	engine *Engine
	logger log15.Logger

	// reconnScale scales the configured reconnect timeout; tests shrink it.
	reconnScale time.Duration

	stop      chan struct{}
	stopOnce  sync.Once
	superOnce sync.Once
	wg        sync.WaitGroup
}

// New builds a client from a validated configuration. The client
// certificate, when configured, is loaded here so a bad container fails
// fast instead of on the first connect.
func New(cfg *config.Config, logger log15.Logger) (*Client, error) {
	return NewWithProvider(cfg, nil, logger)
}

// NewWithProvider is New with transport injection, used by tests and
// callers that tunnel the connection.
func NewWithProvider(cfg *config.Config, provider inet.ConnProvider, logger log15.Logger) (*Client, error) {
	netCfg := inet.Config{
		Addr:         cfg.Addr(),
		SSL:          cfg.SSL,
		NoVerifyCert: cfg.NoVerifyCert,
		Keepalive:    cfg.KeepaliveDuration(),
		Provider:     provider,
	}

	if cfg.SSLCert != "" {
		cert, err := inet.LoadClientCert(cfg.SSLCert, cfg.SSLCertPassword)
		if err != nil {
			return nil, err
		}
		netCfg.ClientCert = cert
	}

	return &Client{
		cfg:         cfg,
		engine:      NewEngine(netCfg, cfg.QuitMessage, logger),
		logger:      logger,
		reconnScale: time.Second,
		stop:        make(chan struct{}),
	}, nil
}

// Connect opens the connection and, only on success, issues the handshake
// and starts the supervisor goroutine.
func (c *Client) Connect() error {
	if err := c.engine.Connect(); err != nil {
		return err
	}
	c.handshake()
	c.superOnce.Do(func() {
		c.wg.Add(1)
		go c.supervise()
	})
	return nil
}

// handshake registers with the server: optional PASS, then NICK, then USER.
// The sends are discrete and do not wait for acknowledgement; the server
// queues them.
func (c *Client) handshake() {
	if c.cfg.Password != "" {
		c.sendHandshake(irc.PASS, c.cfg.Password)
	}
	c.sendHandshake(irc.NICK, c.cfg.Nick)
	c.sendHandshake(irc.USER, c.cfg.Username, c.cfg.Realname)
}

func (c *Client) sendHandshake(name string, args ...string) {
	if err := c.engine.SendCommand(name, args...); err != nil {
		c.logger.Error("handshake send failed", "cmd", name, "err", err)
	}
}

// supervise is the only consumer of the disconnect channel, so each
// unexpected disconnect produces exactly one retry cycle and cycles cannot
// overlap. Retries are unbounded with a flat delay until success or Stop.
func (c *Client) supervise() {
	defer c.wg.Done()

	for {
		select {
		case <-c.stop:
			return
		case <-c.engine.Disconnects():
			c.logger.Warn("unexpected disconnect")
			if c.cfg.NoReconnect {
				continue
			}
			if !c.reconnect() {
				return
			}
		}
	}
}

// reconnect retries the full connect-plus-handshake sequence until it
// succeeds. Returns false when interrupted by Stop.
func (c *Client) reconnect() bool {
	delay := time.Duration(c.cfg.ReconnectTimeout) * c.reconnScale
	for {
		select {
		case <-c.stop:
			return false
		case <-time.After(delay):
		}

		c.logger.Info("reconnecting", "delay", delay)
		if err := c.engine.Connect(); err != nil {
			c.logger.Error("reconnect failed", "err", err)
			continue
		}
		c.logger.Info("reconnect succeeded")
		c.handshake()
		return true
	}
}

// Events is the stream of substantive parsed messages.
func (c *Client) Events() <-chan *irc.Message {
	return c.engine.Events()
}

// IsConnected reports whether the connection is currently up.
func (c *Client) IsConnected() bool {
	return c.engine.IsConnected()
}

// SendCommand sends a templated command by name.
func (c *Client) SendCommand(name string, args ...string) error {
	return c.engine.SendCommand(name, args...)
}

// Raw sends a non-templated line verbatim.
func (c *Client) Raw(line string) error {
	return c.engine.Raw(line)
}

// Stop quits the session with the configured quit message and shuts the
// supervisor down. Safe to call more than once.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
		c.engine.Quit("")
		c.wg.Wait()
	})
}

// Join joins a channel, with an optional key.
func (c *Client) Join(channel string, key ...string) error {
	arg := channel
	if len(key) > 0 {
		arg += " " + strings.Join(key, " ")
	}
	return c.engine.SendCommand(irc.JOIN, arg)
}

// Part leaves a channel.
func (c *Client) Part(channel string) error {
	return c.engine.SendCommand(irc.PART, channel)
}

// Privmsg sends a message to a channel or nick.
func (c *Client) Privmsg(target, text string) error {
	return c.engine.SendCommand(irc.PRIVMSG, target, text)
}

// Notice sends a notice to a channel or nick.
func (c *Client) Notice(target, text string) error {
	return c.engine.SendCommand(irc.NOTICE, target, text)
}

// Action sends a CTCP ACTION to a channel or nick.
func (c *Client) Action(target, text string) error {
	return c.engine.SendCommand("ACTION", target, text)
}

// Topic sets a channel topic.
func (c *Client) Topic(channel, topic string) error {
	return c.engine.SendCommand(irc.TOPIC, channel, topic)
}

// Whois queries a nick.
func (c *Client) Whois(nick string) error {
	return c.engine.SendCommand(irc.WHOIS, nick)
}

// Motd requests the server message of the day.
func (c *Client) Motd() error {
	return c.engine.SendCommand(irc.MOTD)
}
