package renderserver

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tradedocs/pdfgen/internal/config"
)

// IPRateLimiter holds one token bucket per caller IP. Entries unseen for an
// hour are dropped on the next lookup sweep.
type IPRateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*ipLimiter
	rateLimit rate.Limit
	burstRate int
	lastSweep time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter() *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*ipLimiter),
		rateLimit: rate.Limit(config.RATE_LIMIT_PER_SECOND),
		burstRate: config.BURST_RATE_LIMIT_PER_SECOND,
		lastSweep: time.Now(),
	}
}

func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if time.Since(i.lastSweep) > time.Hour {
		for key, entry := range i.ips {
			if time.Since(entry.lastSeen) > time.Hour {
				delete(i.ips, key)
			}
		}
		i.lastSweep = time.Now()
	}

	entry, exists := i.ips[ip]
	if !exists {
		entry = &ipLimiter{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.ips[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}
