package attendance

import "time"

// Statuses recorded per student per school day.
const (
	StatusPresent = "present"
	StatusSick    = "sick"
	StatusExcused = "excused"
	StatusAbsent  = "absent"
)

// Entry is one attendance record.
type Entry struct {
	ID        string
	StudentID string
	ClassID   string
	Date      time.Time
	Status    string
	MarkedBy  string
	MarkedAt  time.Time
}

// DigestRow pairs an unmarked class with its homeroom teacher's email
// for the nightly recap.
type DigestRow struct {
	ClassID      string
	TeacherEmail string
}

// ValidStatus reports whether the status is one of the recorded set.
func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusSick, StatusExcused, StatusAbsent:
		return true
	}
	return false
}
