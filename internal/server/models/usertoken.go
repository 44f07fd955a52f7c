package models

import "time"

// UserToken is a server-stored opaque access token. At most one row exists
// per user; refreshing an expired token updates the row in place.
type UserToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
