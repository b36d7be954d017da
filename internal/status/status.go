// Package status holds the lifecycle semantics of the dashboard: the
// canonicalization of raw provider statuses, their operator-facing labels,
// and the staleness evaluation. Every other package derives job health
// through this one.
package status

import "strings"

// Canonical is the normalized lifecycle state of a job. The set is closed;
// raw values outside the synonym table degrade to Other instead of failing.
type Canonical string

const (
	Queued        Canonical = "queued"
	Processing    Canonical = "processing"
	Completed     Canonical = "completed"
	Failed        Canonical = "failed"
	Cancelled     Canonical = "cancelled"
	UserCancelled Canonical = "user_cancelled"
	Other         Canonical = "other"
)

// canonicalByRaw is the single source of truth for mapping raw poller
// statuses onto canonical states. Adding a synonym is a one-line change
// here and nowhere else.
//
// policy_blocked is folded into failed on purpose; splitting it into its
// own state needs operator sign-off first.
var canonicalByRaw = map[string]Canonical{
	"queued":         Queued,
	"queueing":       Queued,
	"processing":     Processing,
	"pending":        Processing,
	"submitted":      Processing,
	"in_progress":    Processing,
	"started":        Processing,
	"completed":      Completed,
	"failed":         Failed,
	"policy_blocked": Failed,
	"cancelled":      Cancelled,
	"cancelled_user": UserCancelled,
}

var displayLabels = map[Canonical]string{
	Queued:        "Queued",
	Processing:    "Processing",
	Completed:     "Completed",
	Failed:        "Failed",
	Cancelled:     "Cancelled",
	UserCancelled: "User Cancelled",
	Other:         "Other",
}

// Canonicalize maps a raw status string onto its canonical state. It is
// total: empty input and unknown values return Other, never an error.
func Canonicalize(raw string) Canonical {
	if raw == "" {
		return Other
	}
	if canonical, ok := canonicalByRaw[strings.ToLower(raw)]; ok {
		return canonical
	}
	return Other
}

// Display returns the human-readable label for the state. Values outside
// the enumeration fall back to "Other".
func (c Canonical) Display() string {
	if label, ok := displayLabels[c]; ok {
		return label
	}
	return displayLabels[Other]
}

// Active reports whether the job is still in flight. Only active jobs are
// eligible for staleness flagging.
func (c Canonical) Active() bool {
	return c == Queued || c == Processing
}

// All returns the closed set of canonical states in display order.
func All() []Canonical {
	return []Canonical{Queued, Processing, Completed, Failed, Cancelled, UserCancelled, Other}
}
