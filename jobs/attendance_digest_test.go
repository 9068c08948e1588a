package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolah-adp/sekolah-adp/internal/attendance"
)

type fakeDigestStore struct {
	rows []attendance.DigestRow
}

func (f *fakeDigestStore) ClassesMissingEntries(ctx context.Context, date time.Time) ([]attendance.DigestRow, error) {
	return f.rows, nil
}

type fakeEmailEnqueuer struct {
	payloads []SendEmailPayload
}

func (f *fakeEmailEnqueuer) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error) {
	f.payloads = append(f.payloads, payload)
	return &asynq.TaskInfo{}, nil
}

func TestAttendanceDigestEnqueuesReminders(t *testing.T) {
	store := &fakeDigestStore{rows: []attendance.DigestRow{
		{ClassID: "class-3-1", TeacherEmail: "wali31@sekolah.id"},
		{ClassID: "class-3-2", TeacherEmail: ""},
		{ClassID: "class-4-1", TeacherEmail: "wali41@sekolah.id"},
	}}
	mail := &fakeEmailEnqueuer{}
	digest := &AttendanceDigest{Store: store, Mail: mail}

	task, err := NewAttendanceDigestTask(time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, digest.Handle(context.Background(), task))

	// rows without an email are skipped
	require.Len(t, mail.payloads, 2)
	assert.Equal(t, "wali31@sekolah.id", mail.payloads[0].To)
	assert.Contains(t, mail.payloads[0].Body, "class-3-1")
	assert.Contains(t, mail.payloads[0].Body, "2026-08-31")
}
