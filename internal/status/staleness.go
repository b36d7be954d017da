package status

import (
	"time"

	"github.com/pkg/errors"
)

// DefaultStuckThreshold is how long an active job may sit without an update
// before the dashboard flags it. Overridable through configuration; never
// re-derive the value inline.
const DefaultStuckThreshold = 10 * time.Minute

// ErrInvalidTimestamp is returned when a staleness computation receives an
// instant with no timestamp context (the zero time). Callers must normalize
// timestamps before evaluating; computing a duration against a zero instant
// would silently produce garbage.
var ErrInvalidTimestamp = errors.New("invalid timestamp: instant is missing")

// LastTouched picks the most recent touch point of a job: updated_at when
// the poller has written one, created_at otherwise.
func LastTouched(createdAt time.Time, updatedAt *time.Time) time.Time {
	if updatedAt != nil && !updatedAt.IsZero() {
		return *updatedAt
	}
	return createdAt
}

// MinutesSince returns the exact elapsed minutes from lastTouched to now.
// A lastTouched ahead of now (clock skew between the store and this host)
// reports zero rather than a negative age.
func MinutesSince(lastTouched, now time.Time) (float64, error) {
	if lastTouched.IsZero() || now.IsZero() {
		return 0, ErrInvalidTimestamp
	}
	elapsed := now.Sub(lastTouched)
	if elapsed < 0 {
		return 0, nil
	}
	return elapsed.Minutes(), nil
}

// IsStuck reports whether a job should be flagged as stuck: it must be in
// an active state and untouched for at least threshold (inclusive).
// Terminal and unknown states never flag, regardless of age. The caller
// supplies now so the evaluation stays deterministic under test.
func IsStuck(c Canonical, lastTouched, now time.Time, threshold time.Duration) (bool, error) {
	if lastTouched.IsZero() || now.IsZero() {
		return false, ErrInvalidTimestamp
	}
	if !c.Active() {
		return false, nil
	}
	return now.Sub(lastTouched) >= threshold, nil
}
