package webhook

import "time"

// BackoffPolicy returns how long to wait before the next attempt, given the
// number of attempts already made.
type BackoffPolicy interface {
	NextDelay(attempts int) time.Duration
}

// LinearBackoff waits attempts × Step: 1 min after the first failure, 2 min
// after the second.
type LinearBackoff struct {
	Step time.Duration
}

func (b LinearBackoff) NextDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return time.Duration(attempts) * b.Step
}

// ExponentialBackoff doubles Base per attempt, capped at Max when Max > 0.
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

func (b ExponentialBackoff) NextDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}

	delay := b.Base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if b.Max > 0 && delay >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && delay > b.Max {
		return b.Max
	}
	return delay
}

// NewBackoff returns the policy named by kind ("linear" or "exponential").
func NewBackoff(kind string, step time.Duration) BackoffPolicy {
	if kind == "exponential" {
		return ExponentialBackoff{Base: step, Max: 30 * time.Minute}
	}
	return LinearBackoff{Step: step}
}
