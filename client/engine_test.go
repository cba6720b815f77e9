package client

import (
	"github.com/pkg/errors"
	"github.com/telabyte/ircline/inet"
	"github.com/telabyte/ircline/irc"
	"github.com/telabyte/ircline/mocks"
	. "gopkg.in/check.v1"
)

func newTestEngine(conn *mocks.Conn) *Engine {
	cfg := inet.Config{
		Addr:     "irc.test.net:6667",
		Provider: provide(conn),
	}
	return NewEngine(cfg, "bye", testLogger)
}

func (s *s) TestEngine_PingPong(c *C) {
	conn := mocks.NewConn()
	eng := newTestEngine(conn)
	c.Assert(eng.Connect(), IsNil)

	writes := drain(conn)
	conn.SendLine("PING :abc123")
	c.Check(<-writes, Equals, "PONG :abc123\r\n")

	// The pong reply happens after classification, so by now the line has
	// been fully handled and must not have produced an event.
	select {
	case ev := <-eng.Events():
		c.Errorf("unexpected event for PING: %v", ev)
	default:
	}

	eng.Quit("")
	c.Check(<-writes, Equals, "QUIT :bye\r\n")
	conn.WaitForDeath()

	select {
	case <-eng.Disconnects():
		c.Error("quit must not raise the disconnect notification")
	default:
	}
}

func (s *s) TestEngine_BarePing(c *C) {
	conn := mocks.NewConn()
	eng := newTestEngine(conn)
	c.Assert(eng.Connect(), IsNil)

	writes := drain(conn)
	conn.SendLine("PING")
	c.Check(<-writes, Equals, "PONG\r\n")

	eng.Quit("")
	conn.WaitForDeath()
}

func (s *s) TestEngine_EventDelivery(c *C) {
	conn := mocks.NewConn()
	eng := newTestEngine(conn)
	c.Assert(eng.Connect(), IsNil)

	conn.SendLine(":nick!user@host PRIVMSG #chan :hello there")
	ev := <-eng.Events()
	c.Check(ev.Verb, Equals, irc.PRIVMSG)
	c.Check(ev.Source, Equals, ":nick!user@host")
	c.Check(ev.Target, Equals, "#chan")
	c.Check(ev.Text, Equals, "hello there")
	c.Check(ev.Nick, Equals, "nick")
	c.Check(ev.Host, Equals, "user@host")

	conn.SendLine(":irc.server.net 376 nobody :End of /MOTD command.")
	ev = <-eng.Events()
	c.Check(ev.Verb, Equals, irc.RPL_ENDOFMOTD)

	conn.SendLine(":irc.server.net 422 nobody :MOTD File is missing")
	ev = <-eng.Events()
	c.Check(ev.Verb, Equals, irc.ERR_NOMOTD)

	writes := drain(conn)
	eng.Quit("")
	c.Check(<-writes, Equals, "QUIT :bye\r\n")
	conn.WaitForDeath()
}

func (s *s) TestEngine_IgnoresUnrecognized(c *C) {
	conn := mocks.NewConn()
	eng := newTestEngine(conn)
	c.Assert(eng.Connect(), IsNil)

	writes := drain(conn)
	conn.SendLine(":irc.server.net 005 nobody CHANTYPES=# :are supported")
	conn.SendLine(":nick!user@host JOIN #chan")

	// PING/PONG as a sync point: once the pong is out, both earlier lines
	// have been classified.
	conn.SendLine("PING :sync")
	c.Check(<-writes, Equals, "PONG :sync\r\n")

	select {
	case ev := <-eng.Events():
		c.Errorf("unexpected event: %v", ev)
	default:
	}

	eng.Quit("")
	conn.WaitForDeath()
}

func (s *s) TestEngine_SendCommand(c *C) {
	conn := mocks.NewConn()
	eng := newTestEngine(conn)
	c.Assert(eng.Connect(), IsNil)

	writes := drain(conn)

	c.Check(errors.Cause(eng.SendCommand("Bogus")), Equals, irc.ErrUnknownCommand)
	c.Check(errors.Cause(eng.SendCommand("privmsg", "#chan")), Equals, inet.ErrFormatArgs)

	// The failed sends above wrote nothing; the next line out is MOTD.
	c.Check(eng.SendCommand("motd"), IsNil)
	c.Check(<-writes, Equals, "MOTD\r\n")

	c.Check(eng.Raw("VERSION"), IsNil)
	c.Check(<-writes, Equals, "VERSION\r\n")

	eng.Quit("")
	conn.WaitForDeath()
}

func (s *s) TestEngine_SendCommandNotConnected(c *C) {
	conn := mocks.NewConn()
	eng := newTestEngine(conn)

	err := eng.SendCommand("NICK", "nobody")
	c.Check(errors.Cause(err), Equals, inet.ErrNotConnected)
}
