package model

import "time"

// ConflictWindow is the largest gap between two sessions on the same
// calendar date that still counts as overlapping.
const ConflictWindow = time.Hour

// SessionSlot is the part of a session needed to detect time conflicts
type SessionSlot struct {
	SessionID SessionID `db:"id"`
	SportName string    `db:"sport_name"`
	DateTime  time.Time `db:"date_time"`
	Venue     string    `db:"venue"`
}

// SameCalendarDate reports whether a and b fall on the same date in loc
func SameCalendarDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Conflicts reports whether two scheduled times collide: same calendar date
// in loc and at most ConflictWindow apart.
func Conflicts(a, b time.Time, loc *time.Location) bool {
	if !SameCalendarDate(a, b, loc) {
		return false
	}
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= ConflictWindow
}

// FindConflict returns the lowest-id slot colliding with target, or nil.
// Slots for the target session itself are ignored.
func FindConflict(target *Session, slots []SessionSlot, loc *time.Location) *SessionSlot {
	var found *SessionSlot
	for i := range slots {
		slot := &slots[i]
		if slot.SessionID == target.ID {
			continue
		}
		if !Conflicts(target.DateTime, slot.DateTime, loc) {
			continue
		}
		if found == nil || slot.SessionID < found.SessionID {
			found = slot
		}
	}
	return found
}
