package irc

import (
	"github.com/pkg/errors"
	. "gopkg.in/check.v1"
)

func (s *s) TestTemplate_Lookup(c *C) {
	tmpl, err := Template("PRIVMSG")
	c.Check(err, IsNil)
	c.Check(tmpl, Equals, "PRIVMSG %s :%s")
}

func (s *s) TestTemplate_CaseInsensitive(c *C) {
	tmpl, err := Template("privmsg")
	c.Check(err, IsNil)
	c.Check(tmpl, Equals, "PRIVMSG %s :%s")
}

func (s *s) TestTemplate_Unknown(c *C) {
	_, err := Template("Bogus")
	c.Check(err, NotNil)
	c.Check(errors.Cause(err), Equals, ErrUnknownCommand)
}
