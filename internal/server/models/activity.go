package models

import "time"

// Activity is a persisted record of an imported activity file. Filename is
// the artifact name under the user's directory, not the temp-file path.
type Activity struct {
	ID           string
	UserID       string
	Filename     string
	ActivityType *string
	Name         *string
	CreatedAt    time.Time
}
