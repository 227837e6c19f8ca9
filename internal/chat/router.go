package chat

import (
	"strings"
	"time"

	"gochat/internal/metrics"
	"gochat/util"
)

// Router delivers broadcast and private messages by reading the
// registry.  Every delivery works on a snapshot: no send ever happens
// while the registry lock is held, so one slow peer cannot stall the
// others or any thread waiting on the lock.
type Router struct {
	reg *Registry
	log *util.Logger
	met *metrics.Collector
	now func() time.Time // stamped server lines; tests may override
}

// NewRouter returns a router over reg.  met may be nil.
func NewRouter(reg *Registry, log *util.Logger, met *metrics.Collector) *Router {
	return &Router{reg: reg, log: log, met: met, now: time.Now}
}

// stamp returns the bracketed-timestamp prefix every server-originated
// line carries.
func (ro *Router) stamp() string {
	return "[" + ro.now().Format(time.ANSIC) + "] "
}

// Notify sends one stamped, newline-terminated line to a single peer.
func (ro *Router) Notify(p Peer, text string) {
	if err := p.Send([]byte(ro.stamp() + text + "\n")); err != nil {
		ro.log.Warn("notify %s: %v", p.Addr(), err)
		ro.met.RecordError(err.Error())
	}
}

// Broadcast sends a stamped line to every authenticated session except
// exclude (empty Identity excludes no one).  A failed send is logged
// and does not abort delivery to the rest: best effort, no retry.
func (ro *Router) Broadcast(text string, exclude Identity) {
	line := []byte(ro.stamp() + text + "\n")

	for _, s := range ro.reg.Snapshot() {
		if s.ID == exclude || !s.Authenticated {
			continue
		}
		if err := s.Peer.Send(line); err != nil {
			ro.log.Warn("broadcast to %s (%s): %v", s.Name, s.Peer.Addr(), err)
			ro.met.RecordError(err.Error())
		}
	}
	ro.met.BroadcastSent()
}

// PrivateMessage sends text from the session identified by from to the
// first authenticated session named target.  The recipient gets a
// "[Private from <sender>]" line and the sender a "[Private to
// <target>]" confirmation.  Returns false if the sender is not an
// authenticated session or the target is not found; the caller decides
// whether that warrants a notice.
func (ro *Router) PrivateMessage(from Identity, target, text string) bool {
	sender, ok := ro.reg.Get(from)
	if !ok || !sender.Authenticated {
		return false
	}

	toID, ok := ro.reg.Lookup(target)
	if !ok {
		return false
	}
	recipient, ok := ro.reg.Get(toID)
	if !ok {
		return false // raced a disconnect
	}

	msg := []byte(ro.stamp() + "[Private from " + sender.Name + "]: " + text + "\n")
	if err := recipient.Peer.Send(msg); err != nil {
		ro.log.Warn("private to %s: %v", recipient.Peer.Addr(), err)
		ro.met.RecordError(err.Error())
		return false
	}

	confirm := []byte(ro.stamp() + "[Private to " + target + "]: " + text + "\n")
	if err := sender.Peer.Send(confirm); err != nil {
		ro.log.Warn("private confirmation to %s: %v", sender.Peer.Addr(), err)
		ro.met.RecordError(err.Error())
	}

	ro.met.PrivateSent()
	return true
}

// UserList renders the "/users" reply: every authenticated display
// name across both transports.  Sent unstamped, to the requester only.
func (ro *Router) UserList() string {
	var b strings.Builder
	b.WriteString("Connected users:\n")
	for _, s := range ro.reg.Snapshot() {
		if s.Authenticated {
			b.WriteString("- " + s.Name + "\n")
		}
	}
	return b.String()
}
