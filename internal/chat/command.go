package chat

import "strings"

// Kind classifies one inbound text line.
type Kind int

const (
	// KindPlain is an ordinary chat line, broadcast once authenticated.
	KindPlain Kind = iota
	// KindRegister is the datagram-only "REGISTER:<name>" command.
	KindRegister
	// KindHeartbeat is the datagram-only liveness ping; no reply.
	KindHeartbeat
	// KindQuit leaves the chat.
	KindQuit
	// KindUsers requests the list of display names, sender only.
	KindUsers
	// KindPrivate is "/msg <name> <text>".
	KindPrivate
	// KindInvalid is a malformed "/msg" with no message part.
	KindInvalid
)

// Command is one parsed inbound line.
type Command struct {
	Kind   Kind
	Name   string // KindRegister: requested display name, unsanitized
	Target string // KindPrivate: recipient display name (may be empty)
	Text   string // KindPrivate / KindPlain: message body
}

const (
	registerPrefix = "REGISTER:"
	privatePrefix  = "/msg "
)

// Parse classifies a raw text line.  It is a pure function; transport
// adapters decide which kinds are meaningful for them (a stream client
// sending "HEARTBEAT" just said "HEARTBEAT" to the room).
func Parse(line string) Command {
	switch {
	case strings.HasPrefix(line, registerPrefix):
		return Command{Kind: KindRegister, Name: line[len(registerPrefix):]}
	case line == "HEARTBEAT":
		return Command{Kind: KindHeartbeat}
	case line == "/quit":
		return Command{Kind: KindQuit}
	case line == "/users":
		return Command{Kind: KindUsers}
	case strings.HasPrefix(line, privatePrefix):
		rest := line[len(privatePrefix):]
		// The second space delimits target from text.  "/msg  hi"
		// yields an empty target, which simply fails lookup later.
		i := strings.IndexByte(rest, ' ')
		if i < 0 {
			return Command{Kind: KindInvalid}
		}
		return Command{Kind: KindPrivate, Target: rest[:i], Text: rest[i+1:]}
	default:
		return Command{Kind: KindPlain, Text: line}
	}
}
