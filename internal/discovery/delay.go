package discovery

import (
	"hash/fnv"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
)

// DelayInjector applies a randomized pause before registration. Many nodes
// across a cluster boot near-simultaneously and race to register with the
// same external directory service; spreading the registrations over a
// configured window is the sole mitigation. The pause blocks the boot
// sequence itself and cannot be cancelled.
type DelayInjector struct {
	min    time.Duration
	max    time.Duration
	sleep  func(time.Duration)
	logger *zap.Logger
}

// NewDelayInjector creates a DelayInjector for the given range. A max of 0
// disables the delay entirely.
func NewDelayInjector(min, max time.Duration, logger *zap.Logger) *DelayInjector {
	return &DelayInjector{
		min:    min,
		max:    max,
		sleep:  time.Sleep,
		logger: logger,
	}
}

// Inject computes a randomized delay and sleeps for it, returning the
// duration that was applied.
func (d *DelayInjector) Inject() time.Duration {
	delay := d.compute()
	if delay == 0 {
		d.logger.Debug("randomized startup delay disabled")
		return 0
	}

	d.logger.Info("delaying registration to avoid a thundering herd",
		zap.Duration("delay", delay),
		zap.Duration("min", d.min),
		zap.Duration("max", d.max),
	)
	d.sleep(delay)
	return delay
}

// compute samples uniformly from [1ms, max] and clamps the sample up to
// min. A max of 0 always yields 0.
func (d *DelayInjector) compute() time.Duration {
	maxMS := d.max.Milliseconds()
	if maxMS == 0 {
		return 0
	}

	rng := rand.New(rand.NewSource(delaySeed()))
	delay := time.Duration(1+rng.Int63n(maxMS)) * time.Millisecond
	if delay < d.min {
		delay = d.min
	}
	return delay
}

// delaySeed mixes node-unique entropy (hostname, pid, nanosecond clock) so
// that nodes booted at the same instant do not pick correlated delays.
func delaySeed() int64 {
	h := fnv.New64a()
	if hostname, err := os.Hostname(); err == nil {
		h.Write([]byte(hostname))
	}
	return time.Now().UnixNano() ^ int64(os.Getpid())<<32 ^ int64(h.Sum64())
}
