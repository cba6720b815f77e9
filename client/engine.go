/*
Package client implements the protocol engine and the connection supervisor
on top of inet: message classification, templated command sending, the
PASS/NICK/USER handshake and the reconnect policy.
*/
package client

import (
	"github.com/telabyte/ircline/inet"
	"github.com/telabyte/ircline/irc"
	"gopkg.in/inconshreveable/log15.v2"
)

// eventBuffer is how many substantive messages can queue before the read
// loop blocks on the consumer.
const eventBuffer = 64

// Engine subscribes to a connection's line stream, classifies each parsed
// message and exposes one outward channel of substantive events. PINGs are
// answered immediately and never surface; unrecognized verbs are silently
// ignored, which is the common case, not an error.
type Engine struct {
	conn        *inet.Client
	logger      log15.Logger
	events      chan *irc.Message
	quitMessage string
}

// NewEngine creates an engine with its own connection manager.
func NewEngine(cfg inet.Config, quitMessage string, logger log15.Logger) *Engine {
	e := &Engine{
		logger:      logger,
		events:      make(chan *irc.Message, eventBuffer),
		quitMessage: quitMessage,
	}
	e.conn = inet.NewClient(cfg, e.handleLine, logger)
	return e
}

// Connect opens the underlying connection.
func (e *Engine) Connect() error {
	return e.conn.Connect()
}

// IsConnected reports whether the underlying connection is up.
func (e *Engine) IsConnected() bool {
	return e.conn.IsConnected()
}

// Events is the stream of substantive parsed messages. The channel spans
// reconnects and is never closed: a read loop blocked delivering into it
// cannot be unblocked by transport teardown, so closing it could panic an
// in-flight send. Consumers run for the life of the process.
func (e *Engine) Events() <-chan *irc.Message {
	return e.events
}

// Disconnects surfaces the connection's unexpected-disconnect channel.
func (e *Engine) Disconnects() <-chan struct{} {
	return e.conn.Disconnects()
}

// handleLine is the connection's line handler; it runs on the read loop
// goroutine, so event delivery preserves wire order.
func (e *Engine) handleLine(line string) {
	msg := irc.Parse(line)

	switch msg.Verb {
	case irc.PING:
		reply := irc.PONG
		if msg.Text != "" {
			reply += " " + msg.Text
		}
		if err := e.conn.WriteRaw(reply); err != nil {
			e.logger.Warn("pong failed", "err", err)
		}
	case irc.PRIVMSG, irc.NOTICE, irc.RPL_ENDOFMOTD, irc.ERR_NOMOTD:
		e.events <- msg
	}
}

// SendCommand looks up a command template by name, case-insensitively, and
// sends it with the given positional arguments. An unknown name or an
// argument count that does not satisfy the template is a caller error and
// performs no write.
func (e *Engine) SendCommand(name string, args ...string) error {
	tmpl, err := irc.Template(name)
	if err != nil {
		return err
	}
	return e.conn.Write(tmpl, args...)
}

// Raw sends a non-templated line verbatim.
func (e *Engine) Raw(line string) error {
	return e.conn.WriteRaw(line)
}

// Quit sends a QUIT with the given message (or the configured default) and
// tears the connection down without raising the disconnect notification. A
// caller-initiated quit is not an unexpected disconnect, so no reconnect
// follows.
func (e *Engine) Quit(message string) {
	if message == "" {
		message = e.quitMessage
	}
	if err := e.SendCommand(irc.QUIT, message); err != nil {
		e.logger.Debug("quit send failed", "err", err)
	}
	e.conn.Disconnect(false)
}
