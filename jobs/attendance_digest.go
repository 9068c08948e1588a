package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sekolah-adp/sekolah-adp/internal/attendance"
)

// AttendanceDigestStore is the slice of the attendance repository the
// digest needs.
type AttendanceDigestStore interface {
	ClassesMissingEntries(ctx context.Context, date time.Time) ([]attendance.DigestRow, error)
}

// EmailEnqueuer pushes follow-up emails onto the queue.
type EmailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// AttendanceDigest reminds homeroom teachers whose classes have no
// attendance marked for the day.
type AttendanceDigest struct {
	Store  AttendanceDigestStore
	Mail   EmailEnqueuer
	Logger *slog.Logger
}

// Handle processes TaskTypeAttendanceDigest tasks.
func (d *AttendanceDigest) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AttendanceDigestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	day := payload.ScheduledFor.Truncate(24 * time.Hour)
	rows, err := d.Store.ClassesMissingEntries(ctx, day)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.TeacherEmail == "" {
			continue
		}
		body := fmt.Sprintf("Presensi kelas %s untuk tanggal %s belum diisi.",
			row.ClassID, day.Format("2006-01-02"))
		if _, err := d.Mail.EnqueueSendEmail(ctx, SendEmailPayload{
			To:      row.TeacherEmail,
			Subject: "Pengingat presensi harian",
			Body:    body,
		}); err != nil {
			return err
		}
	}
	if d.Logger != nil {
		d.Logger.Info("attendance digest", slog.String("date", day.Format("2006-01-02")), slog.Int("unmarked", len(rows)))
	}
	return nil
}
