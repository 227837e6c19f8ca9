package chat

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"gochat/internal/metrics"
)

// Registry is the concurrent store of all live sessions, guarded by a
// single mutex.  Operating on an absent identity is never an error:
// both transports can race a disconnect against an in-flight message
// for the same identity, so removals and touches degrade to no-ops.
type Registry struct {
	mu       sync.Mutex
	seq      int64
	sessions map[Identity]*Session
	met      *metrics.Collector
	now      func() time.Time
}

// NewRegistry returns an empty registry.  met may be nil.
func NewRegistry(met *metrics.Collector) *Registry {
	return &Registry{
		sessions: make(map[Identity]*Session),
		met:      met,
		now:      time.Now,
	}
}

// Add creates an unauthenticated session for id if none exists.  The
// stream acceptor calls this on first contact, before the display name
// arrives, so that the reaper can already see the connection.
func (r *Registry) Add(id Identity, tr Transport, p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; ok {
		return
	}
	r.insertLocked(id, tr, p)
}

// Register assigns a display name to id, creating the session if it is
// not yet known (the datagram path registers and creates in one step).
// The raw name is sanitized; if nothing is left, a Guest<N> name is
// assigned from the session's creation sequence.  Returns the resolved
// name.
func (r *Registry) Register(id Identity, tr Transport, p Peer, rawName string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = r.insertLocked(id, tr, p)
	}

	name := SanitizeName(rawName)
	if name == "" {
		name = "Guest" + strconv.FormatInt(s.Seq, 10)
	}
	s.Name = name
	s.Authenticated = true
	s.LastActivity = r.now()
	return name
}

// Touch updates the session's last-activity timestamp.  No-op if id is
// absent.
func (r *Registry) Touch(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.LastActivity = r.now()
	}
}

// Get returns a copy of the session for id.
func (r *Registry) Get(id Identity) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return *s, true
	}
	return Session{}, false
}

// Has reports whether id is a known session.
func (r *Registry) Has(id Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// Remove deletes the session and returns what the caller needs to emit
// a departure broadcast and release the transport handle.  ok is false
// if id was already gone, in which case the caller must not broadcast
// (someone else already owned the teardown).
func (r *Registry) Remove(id Identity) (name string, authenticated bool, p Peer, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, found := r.sessions[id]
	if !found {
		return "", false, nil, false
	}
	delete(r.sessions, id)
	r.met.SessionClosed()
	return s.Name, s.Authenticated, s.Peer, true
}

// Lookup scans for the first authenticated session with the given
// display name.  Names are not unique; which duplicate wins is
// whatever the map iteration yields first.
func (r *Registry) Lookup(name string) (Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.Authenticated && s.Name == name {
			return id, true
		}
	}
	return "", false
}

// Snapshot returns a point-in-time copy of every session, for
// iteration outside the lock.
func (r *Registry) Snapshot() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Drain removes every session and returns copies, so shutdown can
// close the transport handles outside the lock.
func (r *Registry) Drain() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		out = append(out, *s)
		delete(r.sessions, id)
		r.met.SessionClosed()
	}
	return out
}

// insertLocked creates the session record.  Caller holds r.mu.
func (r *Registry) insertLocked(id Identity, tr Transport, p Peer) *Session {
	r.seq++
	s := &Session{
		ID:           id,
		Seq:          r.seq,
		Transport:    tr,
		Peer:         p,
		LastActivity: r.now(),
	}
	r.sessions[id] = s
	r.met.SessionOpened()
	return s
}

// SanitizeName strips newlines, carriage returns, and NUL bytes from a
// raw display name and trims surrounding whitespace.
func SanitizeName(raw string) string {
	clean := strings.Map(func(c rune) rune {
		switch c {
		case '\n', '\r', 0:
			return -1
		}
		return c
	}, raw)
	return strings.Trim(clean, " \t")
}
