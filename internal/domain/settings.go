package domain

import "time"

// ProjectSettings describes the project shown in the dashboard header.
type ProjectSettings struct {
	Name             string
	Description      string
	StartDate        time.Time
	EndDate          time.Time
	DefaultAssignees []string
	Theme            string
}
