// FilePath: internal/models/models.occupancy.go
package models

import "time"

// Totals are summed in/out counts over a window.
type Totals struct {
	In  int64 `json:"in"`
	Out int64 `json:"out"`
}

// Present is In - Out floored at zero. Counts are event logs, so out can
// transiently exceed in.
func (t Totals) Present() int64 {
	return max(0, t.In-t.Out)
}

// Add accumulates other into t
func (t *Totals) Add(other Totals) {
	t.In += other.In
	t.Out += other.Out
}

// HourlyCount is the total for one hour-of-day of a breakdown.
type HourlyCount struct {
	Hour int   `json:"hour"`
	In   int64 `json:"in"`
	Out  int64 `json:"out"`
}

// IntervalCount is the total for one [Start, End) slice of a breakdown.
type IntervalCount struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	In    int64     `json:"in"`
	Out   int64     `json:"out"`
}

// ReadOutcome tells why a read-path result looks the way it does. The read
// boundary never returns errors; callers that care inspect the outcome.
type ReadOutcome string

const (
	ReadOK             ReadOutcome = "ok"
	ReadEmpty          ReadOutcome = "empty"
	ReadNotFound       ReadOutcome = "not_found"
	ReadStorageFailure ReadOutcome = "storage_failure"
)

// Degraded reports whether the zero value was substituted for a failed read.
func (o ReadOutcome) Degraded() bool {
	return o == ReadStorageFailure
}
