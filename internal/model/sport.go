package model

import "time"

// SportID uniquely identifies a sport
type SportID int64

// Sport is a kind of activity sessions are scheduled for
type Sport struct {
	ID        SportID   `db:"id"`
	Name      string    `db:"name"`
	CreatedBy UserID    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}
