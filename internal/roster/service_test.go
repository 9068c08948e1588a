package roster

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	assignments map[string]TeacherAssignment
	enrollments map[string]string // studentID -> classID

	classCalls   int
	studentCalls int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		assignments: make(map[string]TeacherAssignment),
		enrollments: make(map[string]string),
	}
}

func (m *memoryRepo) TeachesClass(ctx context.Context, teacherID, classID string) (bool, error) {
	m.classCalls++
	for _, a := range m.assignments {
		if a.TeacherID == teacherID && a.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) TeachesStudent(ctx context.Context, teacherID, studentID string) (bool, error) {
	m.studentCalls++
	classID, ok := m.enrollments[studentID]
	if !ok {
		return false, nil
	}
	return m.TeachesClass(ctx, teacherID, classID)
}

func (m *memoryRepo) TaughtSubjectIDs(ctx context.Context, teacherID string) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, a := range m.assignments {
		if a.TeacherID != teacherID {
			continue
		}
		if _, ok := seen[a.SubjectID]; ok {
			continue
		}
		seen[a.SubjectID] = struct{}{}
		ids = append(ids, a.SubjectID)
	}
	return ids, nil
}

func (m *memoryRepo) ListAssignments(ctx context.Context, teacherID string) ([]TeacherAssignment, error) {
	var list []TeacherAssignment
	for _, a := range m.assignments {
		if a.TeacherID == teacherID {
			list = append(list, a)
		}
	}
	return list, nil
}

func (m *memoryRepo) CreateAssignment(ctx context.Context, a TeacherAssignment) error {
	m.assignments[a.ID] = a
	return nil
}

func (m *memoryRepo) DeleteAssignment(ctx context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := newMemoryRepo()
	return NewService(repo, NewCache(client, time.Minute)), repo
}

func TestTeachesClassCaching(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	repo.assignments["a1"] = TeacherAssignment{ID: "a1", TeacherID: "t1", ClassID: "class-3-1", SubjectID: "math"}

	ok, err := svc.TeachesClass(ctx, "t1", "class-3-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.classCalls)

	// second lookup served from cache
	ok, err = svc.TeachesClass(ctx, "t1", "class-3-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.classCalls)
}

func TestAssignBumpsCacheVersion(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	ok, err := svc.TeachesClass(ctx, "t1", "class-3-1")
	require.NoError(t, err)
	assert.False(t, ok)

	err = svc.Assign(ctx, TeacherAssignment{ID: "a1", TeacherID: "t1", ClassID: "class-3-1", SubjectID: "math"})
	require.NoError(t, err)

	// stale negative entry must not survive the version bump
	ok, err = svc.TeachesClass(ctx, "t1", "class-3-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, repo.classCalls)
}

func TestUnassignInvalidates(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	repo.assignments["a1"] = TeacherAssignment{ID: "a1", TeacherID: "t1", ClassID: "class-3-1", SubjectID: "math"}

	ok, err := svc.TeachesClass(ctx, "t1", "class-3-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Unassign(ctx, "a1"))

	ok, err = svc.TeachesClass(ctx, "t1", "class-3-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTeachesStudent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	repo.assignments["a1"] = TeacherAssignment{ID: "a1", TeacherID: "t1", ClassID: "class-3-1", SubjectID: "math"}
	repo.enrollments["s1"] = "class-3-1"
	repo.enrollments["s2"] = "class-9-9"

	ok, err := svc.TeachesStudent(ctx, "t1", "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.TeachesStudent(ctx, "t1", "s2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmptyIdentifiersShortCircuit(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	ok, err := svc.TeachesClass(ctx, "", "class-3-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.TeachesStudent(ctx, "t1", "")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Zero(t, repo.classCalls)
	assert.Zero(t, repo.studentCalls)
}

func TestAssignValidation(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Assign(context.Background(), TeacherAssignment{ID: "a1", TeacherID: "t1"})
	require.Error(t, err)
}
