// FilePath: internal/models/models.observation.go
package models

import "time"

const (
	ObservedDateLayout = "2006-01-02"
	ObservedTimeLayout = "15:04:05"
)

// CountObservation is one in/out count reported for a camera over [StartTime, EndTime).
// ObservedDate and ObservedTime are derived from StartTime in the facility's zone when
// the observation is ingested and are never recomputed.
type CountObservation struct {
	ID           int64     `json:"id"`
	CameraID     int64     `json:"camera_id"`
	In           int64     `json:"in"`
	Out          int64     `json:"out"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	ObservedDate string    `json:"observed_date"`
	ObservedTime string    `json:"observed_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// Derive fills ObservedDate and ObservedTime from StartTime in loc.
func (o *CountObservation) Derive(loc *time.Location) {
	local := o.StartTime.In(loc)
	o.ObservedDate = local.Format(ObservedDateLayout)
	o.ObservedTime = local.Format(ObservedTimeLayout)
}
