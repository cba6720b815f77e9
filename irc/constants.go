package irc

// IRC messages, 1-1 constant to string lookups for use when classifying
// incoming lines and building replies.
const (
	PRIVMSG = "PRIVMSG"
	NOTICE  = "NOTICE"
	PING    = "PING"
	PONG    = "PONG"
	QUIT    = "QUIT"
	JOIN    = "JOIN"
	PART    = "PART"
	TOPIC   = "TOPIC"
	NICK    = "NICK"
	USER    = "USER"
	PASS    = "PASS"
	WHOIS   = "WHOIS"
	MOTD    = "MOTD"
	MODE    = "MODE"
)

// Numeric replies the engine recognizes. The MOTD pair doubles as the
// "registration finished" signal.
const (
	RPL_WHOISUSER  = "311"
	RPL_ENDOFWHOIS = "318"
	RPL_ENDOFMOTD  = "376"
	ERR_NOMOTD     = "422"
)
