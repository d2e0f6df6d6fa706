package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowed(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)

	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.False(t, rl.IsAllowed("10.0.0.1"), "third attempt within the window must be blocked")

	// Other keys are tracked independently.
	assert.True(t, rl.IsAllowed("10.0.0.2"))
}

func TestGetRemainingRequests(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	assert.Equal(t, 3, rl.GetRemainingRequests("10.0.0.1"))

	rl.IsAllowed("10.0.0.1")
	assert.Equal(t, 2, rl.GetRemainingRequests("10.0.0.1"))
}

func TestWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.False(t, rl.IsAllowed("10.0.0.1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.IsAllowed("10.0.0.1"), "attempts outside the window must not count")
}
