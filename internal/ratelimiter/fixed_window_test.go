package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindowLimiter_Allow(t *testing.T) {
	rl := NewFixedWindowLimiter(2, time.Minute)

	ok, _ := rl.Allow("user-1")
	assert.True(t, ok)
	ok, _ = rl.Allow("user-1")
	assert.True(t, ok)

	ok, retryAfter := rl.Allow("user-1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)

	// Other users have their own window.
	ok, _ = rl.Allow("user-2")
	assert.True(t, ok)
}
