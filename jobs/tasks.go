package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeGradeExport builds a grade export file for download.
	TaskTypeGradeExport = "grades:export"
	// TaskTypeAttendanceDigest summarizes yesterday's attendance for homerooms.
	TaskTypeAttendanceDigest = "attendance:digest"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// GradeExportPayload identifies the export row and the rows to collect.
type GradeExportPayload struct {
	ExportID  string `json:"export_id"`
	ClassID   string `json:"class_id"`
	SubjectID string `json:"subject_id"`
	TermID    string `json:"term_id"`
}

// NewGradeExportTask constructs an Asynq task for a grade export.
func NewGradeExportTask(payload GradeExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGradeExport, data, asynq.Queue(QueueDefault)), nil
}

// AttendanceDigestPayload carries scheduling metadata.
type AttendanceDigestPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewAttendanceDigestTask constructs the nightly attendance digest task.
func NewAttendanceDigestTask(at time.Time) (*asynq.Task, error) {
	payload := AttendanceDigestPayload{ScheduledFor: at}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAttendanceDigest, body, asynq.Queue(QueueDefault)), nil
}
