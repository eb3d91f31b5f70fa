// Package poll implements the condition poller used throughout the browser
// suite: repeatedly evaluate a check until it reports true or a wall-clock
// budget runs out, optionally forcing a full page reload between attempts.
//
// The reload option exists to defeat server-side caching (incremental static
// regeneration) that can keep serving a stale snapshot to a client that never
// reloads. Callers opting into it must not hold locators or element handles
// across the poll, since every retry rebuilds the DOM.
package poll

import (
	"context"
	"time"

	"github.com/hikersvoice/e2e/internal/errs"
	"github.com/hikersvoice/e2e/internal/obs"
)

// Outcome is the terminal result of a poller invocation. It is meaningful
// only when Await returns a nil error.
type Outcome int

const (
	// TimedOut means the condition never became true within the budget.
	TimedOut Outcome = iota
	// Success means the condition reported true.
	Success
)

func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "timed_out"
}

// Check evaluates the awaited condition. A false result means "not yet" and
// is retried; an error means the check itself is broken and propagates
// immediately without further attempts.
type Check func(ctx context.Context) (bool, error)

// Reloader reloads the underlying page or context and blocks until it is
// interaction-ready again.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Config parameterizes a single Await invocation.
type Config struct {
	// Timeout is the total wall-clock budget. No new attempt starts once it
	// would overrun the budget.
	Timeout time.Duration
	// Interval is the delay between attempts.
	Interval time.Duration
	// ReloadBetweenAttempts reloads the page before every re-check. The
	// first check always runs against current state, without reload.
	ReloadBetweenAttempts bool
	// FailureMessage is attached to the caller's test failure on timeout.
	// The poller itself never asserts.
	FailureMessage string
}

func (c Config) validate(r Reloader) error {
	if c.Interval <= 0 {
		return errs.New(errs.InvalidArgument, "poll interval must be positive")
	}
	if c.Timeout <= 0 {
		return errs.New(errs.InvalidArgument, "poll timeout must be positive")
	}
	if c.ReloadBetweenAttempts && r == nil {
		return errs.New(errs.InvalidArgument, "reload between attempts requires a reloader")
	}
	return nil
}

// Await evaluates check immediately and then every cfg.Interval until it
// returns true (Success) or the budget elapses (TimedOut). Iterations are
// strictly sequential: sleep, then reload when configured, then check. A
// check or reload error propagates unmodified; it is never downgraded to
// TimedOut. The reloader may be nil when ReloadBetweenAttempts is false.
func Await(ctx context.Context, r Reloader, cfg Config, check Check) (Outcome, error) {
	if err := cfg.validate(r); err != nil {
		return TimedOut, err
	}

	log := obs.From(ctx).With("pkg", "poll")
	start := time.Now()
	deadline := start.Add(cfg.Timeout)
	attempt := 0

	for {
		attempt++
		ok, err := check(ctx)
		if err != nil {
			return TimedOut, err
		}
		if ok {
			log.Debug("condition met", "attempt", attempt, "elapsed", time.Since(start))
			return Success, nil
		}

		// Budget check before the next attempt, never after: a retry whose
		// sleep would cross the deadline does not start at all.
		if time.Now().Add(cfg.Interval).After(deadline) {
			log.Debug("condition poll exhausted",
				"attempt", attempt,
				"elapsed", time.Since(start),
				"failure", cfg.FailureMessage)
			return TimedOut, nil
		}

		select {
		case <-ctx.Done():
			return TimedOut, ctx.Err()
		case <-time.After(cfg.Interval):
		}

		if cfg.ReloadBetweenAttempts {
			if err := r.Reload(ctx); err != nil {
				return TimedOut, errs.Wrap(errs.Unavailable, "reload between poll attempts failed", err)
			}
		}
	}
}
