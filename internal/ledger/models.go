package ledger

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a recorded run.
type Status string

const (
	StatusPending     Status = "pending"
	StatusFetching    Status = "fetching"
	StatusFetched     Status = "fetched"
	StatusTranscoding Status = "transcoding"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusTranscoding,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusSet[normalized]; ok {
		return normalized, true
	}
	return "", false
}

// Run represents one rip recorded in the ledger.
type Run struct {
	ID              int64
	RunID           string
	URL             string
	Title           string
	DurationSeconds int64
	Status          Status
	SourceFile      string
	OutputFile      string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetFailed marks the run as failed with the given error message.
func (r *Run) SetFailed(message string) {
	r.Status = StatusFailed
	r.ErrorMessage = message
}

// IsTerminal reports whether the run reached a final state.
func (r Run) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
