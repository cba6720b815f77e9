package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "gopkg.in/check.v1"
	"gopkg.in/inconshreveable/log15.v2"
)

func Test(t *testing.T) { TestingT(t) } //Hook into testing package
type s struct{}

var _ = Suite(&s{})

func writeTemp(c *C, name, contents string) string {
	dir := c.MkDir()
	path := filepath.Join(dir, name)
	err := ioutil.WriteFile(path, []byte(contents), os.FileMode(0644))
	c.Assert(err, IsNil)
	return path
}

func (s *s) TestFromFile_Toml(c *C) {
	path := writeTemp(c, "config.toml", `
host = "irc.test.net"
nick = "nobody"
ssl = true
channels = ["#one", "#two"]
`)

	conf, err := FromFile(path)
	c.Assert(err, IsNil)
	c.Check(conf.Host, Equals, "irc.test.net")
	c.Check(conf.Nick, Equals, "nobody")
	c.Check(conf.SSL, Equals, true)
	c.Check(conf.Port, Equals, uint16(6697))
	c.Check(conf.Channels, DeepEquals, []string{"#one", "#two"})
}

func (s *s) TestFromFile_Yaml(c *C) {
	path := writeTemp(c, "config.yaml", `
host: irc.test.net
nick: nobody
port: 7000
password: secret
`)

	conf, err := FromFile(path)
	c.Assert(err, IsNil)
	c.Check(conf.Host, Equals, "irc.test.net")
	c.Check(conf.Port, Equals, uint16(7000))
	c.Check(conf.Password, Equals, "secret")
}

func (s *s) TestValidate_Defaults(c *C) {
	conf := &Config{Host: "irc.test.net", Nick: "nobody"}
	c.Assert(conf.Validate(), IsNil)

	c.Check(conf.Port, Equals, uint16(6667))
	c.Check(conf.Username, Equals, "nobody")
	c.Check(conf.Realname, Equals, "nobody")
	c.Check(conf.Keepalive, Equals, 120.0)
	c.Check(conf.ReconnectTimeout, Equals, uint(15))
	c.Check(conf.QuitMessage, Equals, "ircline")
	c.Check(conf.LogLevel, Equals, "info")
	c.Check(conf.Addr(), Equals, "irc.test.net:6667")
}

func (s *s) TestValidate_Required(c *C) {
	c.Check((&Config{Nick: "nobody"}).Validate(), Equals, errNoHost)
	c.Check((&Config{Host: "irc.test.net"}).Validate(), Equals, errNoNick)

	conf := &Config{
		Host:            "irc.test.net",
		Nick:            "nobody",
		SSLCertPassword: "hunter2",
	}
	c.Check(conf.Validate(), Equals, errCertPasswordAlone)
}

func (s *s) TestLvl(c *C) {
	conf := &Config{LogLevel: "debug"}
	c.Check(conf.Lvl(), Equals, log15.LvlDebug)

	conf.LogLevel = "nonsense"
	c.Check(conf.Lvl(), Equals, log15.LvlInfo)
}
