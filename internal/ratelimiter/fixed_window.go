// Package ratelimiter throttles command invocations per user with a fixed
// window, so one member cannot flood the bot (and through it, the search
// provider) with requests.
package ratelimiter

import (
	"sync"
	"time"
)

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type FixedWindowLimiter struct {
	sync.RWMutex
	users  map[string]int
	limit  int
	window time.Duration
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	rl := &FixedWindowLimiter{
		users:  make(map[string]int),
		limit:  limit,
		window: window,
	}
	go rl.cleanup()
	return rl
}

func (rl *FixedWindowLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	for range ticker.C {
		rl.Lock()
		rl.users = make(map[string]int)
		rl.Unlock()
	}
}

// Allow reports whether the user may run another command now, and how long to
// wait when they may not.
func (rl *FixedWindowLimiter) Allow(userID string) (bool, time.Duration) {
	rl.RLock()
	count, exists := rl.users[userID]
	rl.RUnlock()

	if !exists || count < rl.limit {
		rl.Lock()
		if !exists {
			go rl.resetCount(userID)
		}

		rl.users[userID]++
		rl.Unlock()
		return true, 0
	}

	return false, rl.window
}

func (rl *FixedWindowLimiter) resetCount(userID string) {
	time.Sleep(rl.window)
	rl.Lock()
	delete(rl.users, userID)
	rl.Unlock()
}
