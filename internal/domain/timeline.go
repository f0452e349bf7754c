package domain

import "time"

type Scale string

const (
	ScaleDays   Scale = "days"
	ScaleWeeks  Scale = "weeks"
	ScaleMonths Scale = "months"
)

// Scales lists the scales in display order.
var Scales = []Scale{ScaleDays, ScaleWeeks, ScaleMonths}

const (
	DefaultZoom = 1.0
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 1.2
)

// TimelineConfig is the visible window, bucket granularity and zoom factor
// controlling chart geometry.
type TimelineConfig struct {
	StartDate time.Time
	EndDate   time.Time
	Scale     Scale
	Zoom      float64
}

// DefaultTimelineConfig returns a day-scale config at zoom 1.0.
func DefaultTimelineConfig() TimelineConfig {
	return TimelineConfig{Scale: ScaleDays, Zoom: DefaultZoom}
}
