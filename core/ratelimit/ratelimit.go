// Package ratelimit provides per-client sliding-window admission control.
//
// The window is recomputed relative to the current call, so the effective
// rate is always "at most MaxRequests in any trailing Window", not bound to
// calendar-aligned buckets. Client state lives in a sharded mutex map; the
// limiter is the only mutable shared state in the engine core.
package ratelimit

import (
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 32

// Config holds limiter configuration.
type Config struct {
	Enabled     bool
	MaxRequests int           // admitted requests per window per client
	Window      time.Duration // trailing window length
	SweepEvery  time.Duration // interval of the stale-client sweep (0 = default)
}

// DefaultConfig returns the default limiter configuration:
// 100 requests per trailing hour.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxRequests: 100,
		Window:      time.Hour,
		SweepEvery:  5 * time.Minute,
	}
}

// shard holds the client records of one hash shard.
type shard struct {
	mu      sync.Mutex
	clients map[string][]time.Time
}

// Limiter is a sliding-window rate limiter, safe for concurrent use.
type Limiter struct {
	cfg    Config
	shards [shardCount]*shard

	sweepOnce sync.Once
	stop      chan struct{}
}

// New creates a limiter. A disabled limiter admits everything and
// allocates no per-client state.
func New(cfg Config) *Limiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultConfig().MaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = DefaultConfig().SweepEvery
	}
	l := &Limiter{
		cfg:  cfg,
		stop: make(chan struct{}),
	}
	for i := range l.shards {
		l.shards[i] = &shard{clients: make(map[string][]time.Time)}
	}
	return l
}

// Enabled reports whether admission control is active.
func (l *Limiter) Enabled() bool {
	return l.cfg.Enabled
}

// Admit decides whether a request from clientID at time now is allowed.
// Timestamps older than now-Window are evicted first; at or above
// MaxRequests remaining the call is rejected without being recorded.
func (l *Limiter) Admit(clientID string, now time.Time) bool {
	if !l.cfg.Enabled {
		return true
	}

	sh := l.shardFor(clientID)
	cutoff := now.Add(-l.cfg.Window)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	log := sh.clients[clientID]

	// Evict expired entries in place. The log is append-only in time
	// order, so the live suffix starts at the first entry past the cutoff.
	live := 0
	for live < len(log) && !log[live].After(cutoff) {
		live++
	}
	if live > 0 {
		log = append(log[:0], log[live:]...)
	}

	if len(log) >= l.cfg.MaxRequests {
		sh.clients[clientID] = log
		return false
	}

	sh.clients[clientID] = append(log, now)
	return true
}

// AdmitNow is Admit against the wall clock.
func (l *Limiter) AdmitNow(clientID string) bool {
	return l.Admit(clientID, time.Now())
}

// Remaining returns how many requests clientID may still make within the
// current window.
func (l *Limiter) Remaining(clientID string, now time.Time) int {
	if !l.cfg.Enabled {
		return l.cfg.MaxRequests
	}
	sh := l.shardFor(clientID)
	cutoff := now.Add(-l.cfg.Window)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	live := 0
	for _, t := range sh.clients[clientID] {
		if t.After(cutoff) {
			live++
		}
	}
	if live >= l.cfg.MaxRequests {
		return 0
	}
	return l.cfg.MaxRequests - live
}

// Clients returns the number of tracked client records.
func (l *Limiter) Clients() int {
	total := 0
	for _, sh := range l.shards {
		sh.mu.Lock()
		total += len(sh.clients)
		sh.mu.Unlock()
	}
	return total
}

// StartSweeper launches the periodic reclaim of stale client records
// (clients with no live timestamps). Calling it more than once is a no-op.
func (l *Limiter) StartSweeper() {
	if !l.cfg.Enabled {
		return
	}
	l.sweepOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(l.cfg.SweepEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					l.Sweep(time.Now())
				case <-l.stop:
					return
				}
			}
		}()
	})
}

// Sweep removes client records whose every timestamp is older than
// now-Window. Exported so callers can reclaim on their own schedule.
func (l *Limiter) Sweep(now time.Time) {
	cutoff := now.Add(-l.cfg.Window)
	for _, sh := range l.shards {
		sh.mu.Lock()
		for id, log := range sh.clients {
			if len(log) == 0 || !log[len(log)-1].After(cutoff) {
				delete(sh.clients, id)
			}
		}
		sh.mu.Unlock()
	}
}

// Stop terminates the sweeper goroutine, if running.
func (l *Limiter) Stop() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}

func (l *Limiter) shardFor(clientID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(clientID))
	return l.shards[h.Sum32()%shardCount]
}
