package ratelimiter

import (
	"sync"
	"time"
)

type clientWindow struct {
	count   int
	started time.Time
}

// FixedWindowRateLimiter counts requests per client IP inside fixed windows.
// A client's window opens on its first request and resets lazily once the
// window has passed, so idle clients cost nothing between requests.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	clients map[string]clientWindow
	limit   int
	window  time.Duration
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]clientWindow),
		limit:   limit,
		window:  window,
	}
}

func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, ok := rl.clients[ip]
	if !ok || now.Sub(cw.started) >= rl.window {
		rl.clients[ip] = clientWindow{count: 1, started: now}
		return true, 0
	}

	if cw.count < rl.limit {
		cw.count++
		rl.clients[ip] = cw
		return true, 0
	}

	return false, rl.window - now.Sub(cw.started)
}
