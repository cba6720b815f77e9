/*
Package config loads the client configuration from a TOML or YAML file.

An example configuration looks like this:

	host = "irc.libera.chat"
	port = 6697

	ssl = true
	noverifycert = false
	sslcert = "/path/to/client.p12"
	sslcertpassword = "hunter2"

	nick = "nobody"
	username = "nobody"
	realname = "nobody"
	password = ""

	keepalive = 120.0
	noreconnect = false
	reconnecttimeout = 15

	quitmessage = "bye"
	loglevel = "info"
	channels = ["#chan1", "#chan2"]
*/
package config

import (
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Validate.
const (
	defaultPort             = 6667
	defaultSSLPort          = 6697
	defaultKeepalive        = 120.0
	defaultReconnectTimeout = 15
	defaultQuitMessage      = "ircline"
	defaultLogLevel         = "info"
)

var (
	errNoHost = errors.New("config: host is required")
	errNoNick = errors.New("config: nick is required")
	// errCertPasswordAlone occurs when a certificate passphrase is
	// configured without a certificate to apply it to.
	errCertPasswordAlone = errors.New(
		"config: sslcertpassword requires sslcert")
)

// Config is the recognized option surface for a single connection.
type Config struct {
	Host string `toml:"host" yaml:"host"`
	Port uint16 `toml:"port" yaml:"port"`

	SSL             bool   `toml:"ssl" yaml:"ssl"`
	NoVerifyCert    bool   `toml:"noverifycert" yaml:"noverifycert"`
	SSLCert         string `toml:"sslcert" yaml:"sslcert"`
	SSLCertPassword string `toml:"sslcertpassword" yaml:"sslcertpassword"`

	Nick     string `toml:"nick" yaml:"nick"`
	Username string `toml:"username" yaml:"username"`
	Realname string `toml:"realname" yaml:"realname"`
	Password string `toml:"password" yaml:"password"`

	// Keepalive is the liveness probe interval in seconds.
	Keepalive float64 `toml:"keepalive" yaml:"keepalive"`
	// ReconnectTimeout is the flat delay in seconds between reconnect
	// attempts.
	ReconnectTimeout uint `toml:"reconnecttimeout" yaml:"reconnecttimeout"`
	NoReconnect      bool `toml:"noreconnect" yaml:"noreconnect"`

	QuitMessage string   `toml:"quitmessage" yaml:"quitmessage"`
	LogLevel    string   `toml:"loglevel" yaml:"loglevel"`
	Channels    []string `toml:"channels" yaml:"channels"`
}

// New returns a config with nothing set; Validate fills the defaults.
func New() *Config {
	return &Config{}
}

// FromFile reads and validates a configuration file. The format is chosen
// by extension: .yaml and .yml are YAML, everything else is TOML.
func FromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}

	conf := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, conf)
	default:
		err = toml.Unmarshal(data, conf)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}

	if err = conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate applies defaults and checks the required fields.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errNoHost
	}
	if c.Nick == "" {
		return errNoNick
	}
	if c.SSLCertPassword != "" && c.SSLCert == "" {
		return errCertPasswordAlone
	}

	if c.Port == 0 {
		if c.SSL {
			c.Port = defaultSSLPort
		} else {
			c.Port = defaultPort
		}
	}
	if c.Username == "" {
		c.Username = c.Nick
	}
	if c.Realname == "" {
		c.Realname = c.Nick
	}
	if c.Keepalive == 0 {
		c.Keepalive = defaultKeepalive
	}
	if c.ReconnectTimeout == 0 {
		c.ReconnectTimeout = defaultReconnectTimeout
	}
	if c.QuitMessage == "" {
		c.QuitMessage = defaultQuitMessage
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	return nil
}

// Addr returns the host:port dial string.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(int(c.Port))
}

// KeepaliveDuration returns the probe interval.
func (c *Config) KeepaliveDuration() time.Duration {
	return time.Duration(c.Keepalive * float64(time.Second))
}

// Lvl maps the configured verbosity threshold onto a log15 level. Unknown
// values fall back to info.
func (c *Config) Lvl() log15.Lvl {
	lvl, err := log15.LvlFromString(strings.ToLower(c.LogLevel))
	if err != nil {
		return log15.LvlInfo
	}
	return lvl
}
