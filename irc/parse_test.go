package irc

import (
	"strings"
	"testing"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) } //Hook into testing package
type s struct{}

var _ = Suite(&s{})

func (s *s) TestParse_TwoSegments(c *C) {
	msg := Parse("PING :tungsten.libera.chat")
	c.Check(msg.Verb, Equals, "PING")
	c.Check(msg.Text, Equals, ":tungsten.libera.chat")
	c.Check(msg.Source, Equals, "")
	c.Check(msg.Target, Equals, "")
	c.Check(msg.Nick, Equals, "")
	c.Check(msg.Host, Equals, "")
}

func (s *s) TestParse_ThreeSegments(c *C) {
	msg := Parse(":irc.server.net 376 mynick")
	c.Check(msg.Source, Equals, ":irc.server.net")
	c.Check(msg.Verb, Equals, "376")
	c.Check(msg.Target, Equals, "mynick")
	c.Check(msg.Text, Equals, "")
}

func (s *s) TestParse_FourSegments(c *C) {
	msg := Parse(":nick!user@host PRIVMSG #chan :hello there")
	c.Check(msg.Source, Equals, ":nick!user@host")
	c.Check(msg.Verb, Equals, "PRIVMSG")
	c.Check(msg.Target, Equals, "#chan")
	c.Check(msg.Text, Equals, "hello there")
	c.Check(msg.Nick, Equals, "nick")
	c.Check(msg.Host, Equals, "user@host")
}

func (s *s) TestParse_SingleSegment(c *C) {
	msg := Parse("MOTD")
	c.Check(msg.Verb, Equals, "MOTD")
	c.Check(msg.Text, Equals, "")
}

func (s *s) TestParse_ServerPrefixHasNoNick(c *C) {
	msg := Parse(":irc.server.net NOTICE * :*** Looking up your hostname...")
	c.Check(msg.Source, Equals, ":irc.server.net")
	c.Check(msg.Nick, Equals, "")
	c.Check(msg.Host, Equals, "")
	c.Check(msg.Text, Equals, "*** Looking up your hostname...")
}

func (s *s) TestParse_MalformedNeverFails(c *C) {
	msg := Parse("")
	c.Check(msg, NotNil)
	c.Check(msg.Verb, Equals, "")
	c.Check(msg.Text, Equals, "")
}

func (s *s) TestTextParts_RoundTrip(c *C) {
	msg := Parse(":nick!user@host PRIVMSG #chan :one two three")
	parts := msg.TextParts()
	c.Check(parts, DeepEquals, []string{"one", "two", "three"})
	c.Check(strings.Join(parts, " "), Equals, msg.Text)
}

func (s *s) TestTextParts_Memoized(c *C) {
	msg := Parse("PING :abc")
	first := msg.TextParts()
	second := msg.TextParts()
	c.Check(&first[0], Equals, &second[0])
}
