/*
Package irc defines the wire-level types shared by the rest of ircline: the
parsed protocol message, the line parser, the outgoing command table, and
the verb constants the engine cares about.
*/
package irc

import (
	"strings"
	"time"
)

// Message is a single parsed protocol line. Instances are produced fresh by
// Parse for every line and are not mutated afterwards, except for the
// memoized text split behind TextParts.
//
// Source, Target, Nick and Host use the empty string for "absent". They are
// only ever populated from non-empty space-split tokens, so an empty value
// is unambiguous. Text is always present; it is "" when the line carried no
// trailing parameter.
type Message struct {
	// Verb is the command name or three-digit numeric beginning the line.
	Verb string
	// Source is the leading prefix token, leading colon retained.
	Source string
	// Target is the first parameter on prefixed lines.
	Target string
	// Text is the trailing parameter.
	Text string
	// Nick and Host are extracted from Source when it has the
	// nick!user@host shape. Both are set or both are empty.
	Nick string
	Host string
	// Time is when the line was parsed.
	Time time.Time

	textParts []string
	splitDone bool
}

// TextParts returns Text split on single spaces. The split is computed on
// the first call and reused; messages are consumed by one goroutine at a
// time so no locking is done.
func (m *Message) TextParts() []string {
	if !m.splitDone {
		m.textParts = strings.Split(m.Text, " ")
		m.splitDone = true
	}
	return m.textParts
}
