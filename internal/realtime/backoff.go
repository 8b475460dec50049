package realtime

import (
	"math/rand/v2"
	"time"
)

// Backoff computes exponentially growing retry delays with bounded jitter:
// delay = min(Max, Base<<attempt), randomized by +/- delay*JitterRatio and
// floored at zero. Jitter keeps a fleet of flapping clients from retrying in
// lockstep.
type Backoff struct {
	Base        time.Duration
	Max         time.Duration
	JitterRatio float64
}

func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := b.Base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= b.Max {
			delay = b.Max
			break
		}
	}
	if delay > b.Max {
		delay = b.Max
	}

	if b.JitterRatio > 0 {
		jitter := time.Duration(float64(delay) * b.JitterRatio * (2*rand.Float64() - 1))
		delay += jitter
	}

	if delay < 0 {
		delay = 0
	}

	return delay
}
