// FilePath: internal/models/models.camera.go
package models

import "time"

// Camera is a counting device polled by the refresh scheduler.
type Camera struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	RefreshRateSeconds int64     `json:"refresh_rate_seconds"`
	LastRefresh        time.Time `json:"last_refresh"`
	Endpoint           string    `json:"endpoint,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NextRefresh is LastRefresh + RefreshRateSeconds, at one-second resolution.
func (c *Camera) NextRefresh() time.Time {
	return time.Unix(c.LastRefresh.Unix()+c.RefreshRateSeconds, 0)
}

// IsDue reports whether now has reached the camera's next refresh instant.
// A rate of zero is due on every call.
func (c *Camera) IsDue(now time.Time) bool {
	return now.Unix() >= c.LastRefresh.Unix()+c.RefreshRateSeconds
}

// Window returns the cadence-sized acquisition window [now-rate, now).
func (c *Camera) Window(now time.Time) (from, to time.Time) {
	to = time.Unix(now.Unix(), 0)
	return to.Add(-time.Duration(c.RefreshRateSeconds) * time.Second), to
}
