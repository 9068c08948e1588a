package roster

import "time"

// TeacherAssignment links a teacher to a class/subject/term tuple.
type TeacherAssignment struct {
	ID        string
	TeacherID string
	ClassID   string
	SubjectID string
	TermID    string
	CreatedAt time.Time
}

// Enrollment places a student in a class.
type Enrollment struct {
	StudentID string
	ClassID   string
}
