package grades

import "time"

// Grade is one recorded score for a student in a subject and term.
type Grade struct {
	ID         string
	StudentID  string
	ClassID    string
	SubjectID  string
	TermID     string
	Score      float64
	RecordedBy string
	RecordedAt time.Time
}

// Export statuses.
const (
	ExportStatusPending = "pending"
	ExportStatusDone    = "done"
	ExportStatusFailed  = "failed"
)

// Export tracks one requested grade export processed by the worker.
type Export struct {
	ID          string
	RequestedBy string
	ClassID     string
	SubjectID   string
	TermID      string
	Status      string
	FilePath    string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ExportScope identifies the grades an export covers.
type ExportScope struct {
	ClassID   string
	SubjectID string
	TermID    string
}
