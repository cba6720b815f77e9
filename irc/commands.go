package irc

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownCommand is returned by Template for names with no table entry.
var ErrUnknownCommand = errors.New("irc: unknown command")

// commandTable maps command names to wire-format templates. Substitution is
// positional; every %s consumes exactly one argument. The table is read-only
// after init.
var commandTable = map[string]string{
	NICK:     NICK + " %s",
	USER:     USER + " %s 0 * :%s",
	PASS:     PASS + " %s",
	JOIN:     JOIN + " %s",
	PART:     PART + " %s",
	TOPIC:    TOPIC + " %s :%s",
	PRIVMSG:  PRIVMSG + " %s :%s",
	NOTICE:   NOTICE + " %s :%s",
	"ACTION": PRIVMSG + " %s :\x01ACTION %s\x01",
	WHOIS:    WHOIS + " %s",
	MOTD:     MOTD,
	PING:     PING + " %s",
	PONG:     PONG + " %s",
	QUIT:     QUIT + " :%s",
	MODE:     MODE + " %s %s",
	"NAMES":  "NAMES %s",
	"INVITE": "INVITE %s %s",
	"KICK":   "KICK %s %s :%s",
	"OPER":   "OPER %s %s",
	"AWAY":   "AWAY :%s",
	"ISON":   "ISON %s",
	"LIST":   "LIST",
}

// Template looks up the wire template for a command name. The lookup is
// case-insensitive. A miss is a caller error, not a protocol error.
func Template(name string) (string, error) {
	tmpl, ok := commandTable[strings.ToUpper(name)]
	if !ok {
		return "", errors.Wrap(ErrUnknownCommand, name)
	}
	return tmpl, nil
}
