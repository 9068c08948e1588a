package counseling

import "time"

// SessionRecord is one counseling session with a student.
type SessionRecord struct {
	ID          string
	StudentID   string
	CounselorID string
	Topic       string
	Notes       string
	HeldAt      time.Time
	CreatedAt   time.Time
}
