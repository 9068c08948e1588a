package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

type memoryRepo struct {
	entries []Entry
}

func (m *memoryRepo) ListByClassDate(ctx context.Context, classID string, date time.Time) ([]Entry, error) {
	var list []Entry
	for _, e := range m.entries {
		if e.ClassID == classID && e.Date.Equal(date) {
			list = append(list, e)
		}
	}
	return list, nil
}

func (m *memoryRepo) Mark(ctx context.Context, e Entry) error {
	for i, existing := range m.entries {
		if existing.StudentID == e.StudentID && existing.Date.Equal(e.Date) {
			m.entries[i] = e
			return nil
		}
	}
	m.entries = append(m.entries, e)
	return nil
}

type stubRoster struct {
	classes map[string]bool
}

func (s stubRoster) TeachesStudent(ctx context.Context, teacherID, studentID string) (bool, error) {
	return false, nil
}

func (s stubRoster) TeachesClass(ctx context.Context, teacherID, classID string) (bool, error) {
	return s.classes[teacherID+"/"+classID], nil
}

func homeroom() policy.Subject {
	return policy.Subject{ID: "t1", Role: policy.RoleHomeroomTeacher, Active: true, HomeroomClassID: "class-3-1"}
}

func general() policy.Subject {
	return policy.Subject{ID: "t2", Role: policy.RoleGeneralTeacher, Active: true, TaughtSubjectIDs: []string{"math"}}
}

func newTestService(roster policy.Roster) (*Service, *memoryRepo) {
	repo := &memoryRepo{}
	guard := shared.Guard{Engine: policy.NewEngine(roster)}
	return NewService(repo, guard), repo
}

func TestMark(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(stubRoster{})
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	t.Run("homeroom marks own class", func(t *testing.T) {
		err := svc.Mark(ctx, homeroom(), Entry{StudentID: "s1", ClassID: "class-3-1", Date: day, Status: StatusSick})
		require.NoError(t, err)
		require.Len(t, repo.entries, 1)
		assert.Equal(t, "t1", repo.entries[0].MarkedBy)
		assert.NotEmpty(t, repo.entries[0].ID)
	})

	t.Run("remark replaces same day", func(t *testing.T) {
		err := svc.Mark(ctx, homeroom(), Entry{StudentID: "s1", ClassID: "class-3-1", Date: day, Status: StatusPresent})
		require.NoError(t, err)
		require.Len(t, repo.entries, 1)
		assert.Equal(t, StatusPresent, repo.entries[0].Status)
	})

	t.Run("general teacher denied", func(t *testing.T) {
		err := svc.Mark(ctx, general(), Entry{StudentID: "s1", ClassID: "class-3-1", Date: day, Status: StatusAbsent})
		require.ErrorIs(t, err, httpx.ErrForbidden)
	})

	t.Run("invalid status rejected before guard", func(t *testing.T) {
		err := svc.Mark(ctx, homeroom(), Entry{StudentID: "s1", ClassID: "class-3-1", Date: day, Status: "late"})
		require.ErrorIs(t, err, httpx.ErrValidation)
	})
}

func TestListByClassDate(t *testing.T) {
	ctx := context.Background()
	roster := stubRoster{classes: map[string]bool{"t2/class-3-1": true}}
	svc, repo := newTestService(roster)
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	repo.entries = []Entry{
		{ID: "e1", StudentID: "s1", ClassID: "class-3-1", Date: day, Status: StatusPresent},
		{ID: "e2", StudentID: "s2", ClassID: "class-9-9", Date: day, Status: StatusPresent},
	}

	list, err := svc.ListByClassDate(ctx, general(), "class-3-1", day)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].StudentID)

	_, err = svc.ListByClassDate(ctx, general(), "class-9-9", day)
	require.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPresent, StatusSick, StatusExcused, StatusAbsent} {
		assert.True(t, ValidStatus(status))
	}
	assert.False(t, ValidStatus("late"))
	assert.False(t, ValidStatus(""))
}
