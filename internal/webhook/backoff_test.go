package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinearBackoff(t *testing.T) {
	b := LinearBackoff{Step: time.Minute}

	assert.Equal(t, time.Minute, b.NextDelay(0))
	assert.Equal(t, time.Minute, b.NextDelay(1))
	assert.Equal(t, 2*time.Minute, b.NextDelay(2))
	assert.Equal(t, 5*time.Minute, b.NextDelay(5))
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff{Base: time.Minute, Max: 10 * time.Minute}

	assert.Equal(t, time.Minute, b.NextDelay(1))
	assert.Equal(t, 2*time.Minute, b.NextDelay(2))
	assert.Equal(t, 4*time.Minute, b.NextDelay(3))
	assert.Equal(t, 8*time.Minute, b.NextDelay(4))
	assert.Equal(t, 10*time.Minute, b.NextDelay(5))
	assert.Equal(t, 10*time.Minute, b.NextDelay(60))

	uncapped := ExponentialBackoff{Base: time.Second}
	assert.Equal(t, 16*time.Second, uncapped.NextDelay(5))
}

func TestNewBackoff(t *testing.T) {
	assert.Equal(t, LinearBackoff{Step: time.Minute}, NewBackoff("linear", time.Minute))
	assert.Equal(t, LinearBackoff{Step: time.Minute}, NewBackoff("", time.Minute))
	assert.IsType(t, ExponentialBackoff{}, NewBackoff("exponential", time.Minute))
}
