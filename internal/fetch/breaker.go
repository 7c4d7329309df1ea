package fetch

import (
	"errors"
	"sync"
	"time"
)

// ErrHostOpen is returned while a host's circuit is open.
var ErrHostOpen = errors.New("host circuit open")

type hostState int

const (
	hostClosed hostState = iota
	hostHalfOpen
	hostOpen
)

// hostCircuit tracks failures for one target host.
type hostCircuit struct {
	state       hostState
	failures    uint32
	probes      uint32
	reopenAfter time.Time
}

// HostBreaker trips per target host so one blocking site cannot stall
// fetches against the rest. Scrape targets fail in bursts when they
// start serving captchas, so the trip threshold is low.
type HostBreaker struct {
	mu       sync.Mutex
	hosts    map[string]*hostCircuit
	trip     uint32
	cooldown time.Duration
	probes   uint32
}

// NewHostBreaker builds a breaker that opens a host after trip
// consecutive failures and retries it after cooldown.
func NewHostBreaker(trip uint32, cooldown time.Duration) *HostBreaker {
	if trip == 0 {
		trip = 3
	}
	if cooldown == 0 {
		cooldown = time.Minute
	}
	return &HostBreaker{
		hosts:    make(map[string]*hostCircuit),
		trip:     trip,
		cooldown: cooldown,
		probes:   1,
	}
}

// Allow reports whether a request to host may proceed.
func (b *HostBreaker) Allow(host string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuit(host)
	switch c.state {
	case hostOpen:
		if time.Now().Before(c.reopenAfter) {
			return ErrHostOpen
		}
		c.state = hostHalfOpen
		c.probes = 0
		fallthrough
	case hostHalfOpen:
		if c.probes >= b.probes {
			return ErrHostOpen
		}
		c.probes++
	}
	return nil
}

// Record reports a request outcome for host.
func (b *HostBreaker) Record(host string, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuit(host)
	if success {
		c.state = hostClosed
		c.failures = 0
		return
	}

	c.failures++
	if c.state == hostHalfOpen || c.failures >= b.trip {
		c.state = hostOpen
		c.failures = 0
		c.reopenAfter = time.Now().Add(b.cooldown)
	}
}

// Open reports whether host's circuit is currently open.
func (b *HostBreaker) Open(host string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.circuit(host)
	return c.state == hostOpen && time.Now().Before(c.reopenAfter)
}

func (b *HostBreaker) circuit(host string) *hostCircuit {
	c, ok := b.hosts[host]
	if !ok {
		c = &hostCircuit{}
		b.hosts[host] = c
	}
	return c
}
