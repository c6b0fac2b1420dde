// Package ratelimit paces outgoing requests to the translation backend.
//
// Crowdin enforces per-token request quotas; the client keeps below them
// with a local limiter instead of burning retry budget on 429 responses.
// Two strategies are provided: a token bucket (default, allows short
// bursts) and a fixed delay between consecutive requests.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Limiter gates requests and supplies backoff delays for retries.
type Limiter interface {
	// Wait blocks until the next request may be sent or ctx is canceled.
	Wait(ctx context.Context) error
	// RetryAfter returns the backoff delay before retry number attempt
	// (0-based).
	RetryAfter(attempt int) time.Duration
}

// Duration wraps time.Duration so yaml configs can use strings like
// "500ms" or "1m30s" as well as plain nanosecond integers.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("invalid duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Strategy selects the pacing algorithm.
type Strategy string

const (
	StrategyTokenBucket Strategy = "token_bucket"
	StrategyFixedDelay  Strategy = "fixed_delay"
)

// Config holds limiter settings. Zero values fall back to defaults.
type Config struct {
	Strategy       Strategy `yaml:"strategy"`
	RequestsPerSec float64  `yaml:"requests_per_second"`
	Burst          int      `yaml:"burst"`
	FixedDelay     Duration `yaml:"fixed_delay"`
	InitialBackoff Duration `yaml:"initial_backoff"`
	MaxBackoff     Duration `yaml:"max_backoff"`
}

// DefaultConfig returns the defaults used by the CLI: 10 req/s with a
// small burst, exponential backoff from 1s capped at 60s.
func DefaultConfig() Config {
	return Config{
		Strategy:       StrategyTokenBucket,
		RequestsPerSec: 10,
		Burst:          5,
		FixedDelay:     Duration(200 * time.Millisecond),
		InitialBackoff: Duration(time.Second),
		MaxBackoff:     Duration(60 * time.Second),
	}
}

func applyDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Strategy == "" {
		cfg.Strategy = def.Strategy
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = def.RequestsPerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.FixedDelay <= 0 {
		cfg.FixedDelay = def.FixedDelay
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	return cfg
}

// New creates a limiter for the configured strategy.
func New(cfg Config) Limiter {
	cfg = applyDefaults(cfg)
	if cfg.Strategy == StrategyFixedDelay {
		return newFixedDelay(cfg)
	}
	return newTokenBucket(cfg)
}

// backoff computes the exponential delay for a retry attempt.
func backoff(attempt int, cfg Config) time.Duration {
	d := time.Duration(float64(cfg.InitialBackoff) * math.Pow(2, float64(attempt)))
	if d > cfg.MaxBackoff.Std() || d <= 0 {
		return cfg.MaxBackoff.Std()
	}
	return d
}

// ---------------------------------------------------------------------------
// Token bucket
// ---------------------------------------------------------------------------

type tokenBucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	cfg    Config
}

func newTokenBucket(cfg Config) *tokenBucket {
	return &tokenBucket{
		tokens: float64(cfg.Burst),
		last:   time.Now(),
		cfg:    cfg,
	}
}

func (tb *tokenBucket) Wait(ctx context.Context) error {
	for {
		tb.mu.Lock()
		tb.refill()
		if tb.tokens >= 1 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}
		deficit := 1 - tb.tokens
		wait := time.Duration(deficit / tb.cfg.RequestsPerSec * float64(time.Second))
		tb.mu.Unlock()

		timer := time.NewTimer(wait + time.Nanosecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (tb *tokenBucket) RetryAfter(attempt int) time.Duration {
	return backoff(attempt, tb.cfg)
}

// refill adds tokens for the elapsed time; call with the lock held.
func (tb *tokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.last)
	if elapsed <= 0 {
		return
	}
	tb.tokens += elapsed.Seconds() * tb.cfg.RequestsPerSec
	if tb.tokens > float64(tb.cfg.Burst) {
		tb.tokens = float64(tb.cfg.Burst)
	}
	tb.last = now
}

// ---------------------------------------------------------------------------
// Fixed delay
// ---------------------------------------------------------------------------

type fixedDelay struct {
	mu   sync.Mutex
	next time.Time
	cfg  Config
}

func newFixedDelay(cfg Config) *fixedDelay {
	return &fixedDelay{cfg: cfg}
}

func (fd *fixedDelay) Wait(ctx context.Context) error {
	fd.mu.Lock()
	now := time.Now()
	wait := fd.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	fd.next = now.Add(wait + fd.cfg.FixedDelay.Std())
	fd.mu.Unlock()

	if wait == 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (fd *fixedDelay) RetryAfter(attempt int) time.Duration {
	return backoff(attempt, fd.cfg)
}

// None returns a limiter that never waits. Used by tests and by callers
// that delegate pacing entirely to the backend's 429 handling.
func None() Limiter { return noLimit{} }

type noLimit struct{}

func (noLimit) Wait(context.Context) error { return nil }

func (noLimit) RetryAfter(attempt int) time.Duration {
	return backoff(attempt, DefaultConfig())
}
