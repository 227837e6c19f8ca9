package chat

import (
	"context"
	"time"

	"gochat/internal/metrics"
	"gochat/util"
)

// Reaper evicts sessions whose last activity is older than their
// transport's idle threshold.  The datagram threshold defaults to a
// shorter value than the stream one; both are configuration, not
// protocol.
type Reaper struct {
	reg    *Registry
	router *Router
	log    *util.Logger
	met    *metrics.Collector

	interval time.Duration
	idle     map[Transport]time.Duration
}

// NewReaper returns a reaper sweeping every interval.
func NewReaper(reg *Registry, router *Router, log *util.Logger, met *metrics.Collector,
	interval, streamIdle, datagramIdle time.Duration) *Reaper {
	return &Reaper{
		reg:      reg,
		router:   router,
		log:      log,
		met:      met,
		interval: interval,
		idle: map[Transport]time.Duration{
			TransportStream:   streamIdle,
			TransportDatagram: datagramIdle,
		},
	}
}

// Run sweeps periodically until ctx is cancelled.
func (rp *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(rp.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rp.Sweep(time.Now())
		}
	}
}

// Sweep evicts every session idle beyond its threshold and returns the
// number removed.  Eviction closes the peer (a no-op for datagram
// peers) and broadcasts a timeout notice if the session was
// authenticated.
func (rp *Reaper) Sweep(now time.Time) int {
	evicted := 0
	for _, s := range rp.reg.Snapshot() {
		if now.Sub(s.LastActivity) <= rp.idle[s.Transport] {
			continue
		}

		name, authenticated, peer, ok := rp.reg.Remove(s.ID)
		if !ok {
			continue // raced a disconnect
		}
		if peer != nil {
			peer.Close()
		}
		rp.met.SessionEvicted()
		rp.log.Info("removed inactive client %s (%q) after %s idle",
			s.ID, name, now.Sub(s.LastActivity).Truncate(time.Second))

		if authenticated && name != "" {
			rp.router.Broadcast(name+" has timed out", "")
		}
		evicted++
	}
	return evicted
}
