package irc

import (
	"regexp"
	"strings"
	"time"
)

// prefixRegex matches a nick!user@host style prefix anywhere in the first
// segment of a line, with an optional leading colon.
var prefixRegex = regexp.MustCompile(`^:?([^!\s]+)!(\S+)`)

// Parse converts a raw protocol line into a Message. It never fails:
// servers emit lines outside the strict grammar and the engine has to stay
// alive, so malformed input yields a best-effort Message with the
// unrecognized fields left empty.
//
// The line is split on the first three spaces at most, giving up to four
// segments so the trailing segment may itself contain spaces:
//
//	1 segment:  verb
//	2 segments: verb, text (taken verbatim, leading colon retained)
//	3 segments: source, verb, target
//	4 segments: source, verb, target, text (one leading colon stripped)
func Parse(line string) *Message {
	msg := &Message{Time: time.Now().UTC()}

	segs := strings.SplitN(line, " ", 4)
	switch len(segs) {
	case 1:
		msg.Verb = segs[0]
	case 2:
		msg.Verb = segs[0]
		msg.Text = segs[1]
	case 3:
		msg.Source, msg.Verb, msg.Target = segs[0], segs[1], segs[2]
	case 4:
		msg.Source, msg.Verb, msg.Target = segs[0], segs[1], segs[2]
		msg.Text = strings.TrimPrefix(segs[3], ":")
	}

	if msg.Source != "" {
		if parts := prefixRegex.FindStringSubmatch(msg.Source); parts != nil {
			msg.Nick = parts[1]
			msg.Host = parts[2]
		}
	}

	return msg
}
