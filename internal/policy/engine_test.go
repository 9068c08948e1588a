package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster struct {
	students map[string]bool
	classes  map[string]bool
	err      error

	studentCalls int
	classCalls   int
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{
		students: make(map[string]bool),
		classes:  make(map[string]bool),
	}
}

func rosterKey(teacherID, id string) string {
	return teacherID + "/" + id
}

func (f *fakeRoster) TeachesStudent(ctx context.Context, teacherID, studentID string) (bool, error) {
	f.studentCalls++
	if f.err != nil {
		return false, f.err
	}
	return f.students[rosterKey(teacherID, studentID)], nil
}

func (f *fakeRoster) TeachesClass(ctx context.Context, teacherID, classID string) (bool, error) {
	f.classCalls++
	if f.err != nil {
		return false, f.err
	}
	return f.classes[rosterKey(teacherID, classID)], nil
}

func homeroomSubject() Subject {
	return Subject{
		ID:              "teacher-1",
		Role:            RoleHomeroomTeacher,
		Active:          true,
		HomeroomClassID: "class-3-1",
	}
}

func generalSubject() Subject {
	return Subject{
		ID:               "teacher-2",
		Role:             RoleGeneralTeacher,
		Active:           true,
		TaughtSubjectIDs: []string{"math", "physics"},
	}
}

func TestEvaluatePreconditions(t *testing.T) {
	engine := NewEngine(newFakeRoster())
	ctx := context.Background()

	t.Run("unknown role is an error not a denial", func(t *testing.T) {
		sub := homeroomSubject()
		sub.Role = "principal"
		_, err := engine.Evaluate(ctx, sub, PermStudentsView, nil)
		require.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("unknown permission is an error not a denial", func(t *testing.T) {
		_, err := engine.Evaluate(ctx, homeroomSubject(), "students.delete", nil)
		require.ErrorIs(t, err, ErrUnknownPermission)
	})
}

func TestEvaluateActivationGate(t *testing.T) {
	roster := newFakeRoster()
	engine := NewEngine(roster)
	ctx := context.Background()

	for _, role := range []Role{RoleHomeroomTeacher, RoleGeneralTeacher} {
		sub := Subject{ID: "t", Role: role, Active: false, HomeroomClassID: "class-3-1"}
		for _, perm := range AllPermissions() {
			decision, err := engine.Evaluate(ctx, sub, perm, nil)
			require.NoError(t, err)
			assert.False(t, decision.Allowed)
			assert.Equal(t, ReasonSubjectInactive, decision.Reason)
		}
	}
	// gate fires before any roster lookup
	assert.Zero(t, roster.studentCalls)
	assert.Zero(t, roster.classCalls)
}

func TestEvaluateBaselineTable(t *testing.T) {
	engine := NewEngine(newFakeRoster())
	ctx := context.Background()

	t.Run("homeroom holds all permissions", func(t *testing.T) {
		for _, perm := range AllPermissions() {
			decision, err := engine.Evaluate(ctx, homeroomSubject(), perm, nil)
			require.NoError(t, err)
			assert.True(t, decision.Allowed, "permission %s", perm)
		}
	})

	t.Run("general teacher misses management permissions", func(t *testing.T) {
		denied := []Permission{
			PermStudentsManage, PermStudentsEditInfo,
			PermAttendanceManage, PermParentsContact,
			PermClassManage, PermCounselingViewRecords,
		}
		for _, perm := range denied {
			decision, err := engine.Evaluate(ctx, generalSubject(), perm, nil)
			require.NoError(t, err)
			assert.False(t, decision.Allowed, "permission %s", perm)
			assert.Equal(t, ReasonPermissionNotGranted, decision.Reason)
		}
	})
}

func TestEvaluateGeneralGradesManage(t *testing.T) {
	engine := NewEngine(newFakeRoster())
	ctx := context.Background()
	sub := generalSubject()

	t.Run("own subject allows", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermGradesManage, &Resource{SubjectID: "math"})
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("other subject denies", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermGradesManage, &Resource{SubjectID: "biology"})
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotOwnSubject, decision.Reason)
	})

	t.Run("missing resource denies", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermGradesManage, nil)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotOwnSubject, decision.Reason)
	})

	t.Run("empty subject id denies", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermGradesManage, &Resource{ClassID: "class-3-1"})
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotOwnSubject, decision.Reason)
	})
}

func TestEvaluateGeneralCounseling(t *testing.T) {
	roster := newFakeRoster()
	engine := NewEngine(roster)
	ctx := context.Background()
	sub := generalSubject()
	roster.students[rosterKey(sub.ID, "student-9")] = true

	t.Run("taught student allows", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermCounselingConduct, &Resource{StudentID: "student-9"})
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("other student denies", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermCounselingConduct, &Resource{StudentID: "student-7"})
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotOwnStudent, decision.Reason)
	})

	t.Run("missing student denies without lookup", func(t *testing.T) {
		before := roster.studentCalls
		decision, err := engine.Evaluate(ctx, sub, PermCounselingConduct, nil)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotOwnStudent, decision.Reason)
		assert.Equal(t, before, roster.studentCalls)
	})

	t.Run("roster failure surfaces as error", func(t *testing.T) {
		roster.err = errors.New("db down")
		defer func() { roster.err = nil }()
		_, err := engine.Evaluate(ctx, sub, PermCounselingConduct, &Resource{StudentID: "student-9"})
		require.Error(t, err)
	})
}

func TestEvaluateGeneralViewScoping(t *testing.T) {
	roster := newFakeRoster()
	engine := NewEngine(roster)
	ctx := context.Background()
	sub := generalSubject()
	roster.classes[rosterKey(sub.ID, "class-3-1")] = true

	t.Run("taught class allows", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermGradesView, &Resource{ClassID: "class-3-1"})
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("other class denies", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermStudentsView, &Resource{ClassID: "class-9-9"})
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNotOwnClass, decision.Reason)
	})

	t.Run("no class context allows baseline grant", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermAttendanceView, nil)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})
}

func TestEvaluateHomeroomScoping(t *testing.T) {
	engine := NewEngine(newFakeRoster())
	ctx := context.Background()
	sub := homeroomSubject()

	t.Run("own class allows management", func(t *testing.T) {
		for _, perm := range []Permission{PermClassManage, PermStudentsManage, PermStudentsEditInfo} {
			decision, err := engine.Evaluate(ctx, sub, perm, &Resource{ClassID: "class-3-1"})
			require.NoError(t, err)
			assert.True(t, decision.Allowed, "permission %s", perm)
		}
	})

	t.Run("other class denies management", func(t *testing.T) {
		for _, perm := range []Permission{PermClassManage, PermStudentsManage, PermStudentsEditInfo} {
			decision, err := engine.Evaluate(ctx, sub, perm, &Resource{ClassID: "class-9-9"})
			require.NoError(t, err)
			assert.False(t, decision.Allowed, "permission %s", perm)
			assert.Equal(t, ReasonNotOwnClass, decision.Reason)
		}
	})

	t.Run("absent class id allows", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermClassManage, nil)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("export ignores resource entirely", func(t *testing.T) {
		decision, err := engine.Evaluate(ctx, sub, PermGradesExport, &Resource{ClassID: "class-9-9", SubjectID: "art"})
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})
}

func TestEvaluateIdempotent(t *testing.T) {
	roster := newFakeRoster()
	engine := NewEngine(roster)
	ctx := context.Background()
	sub := generalSubject()
	roster.classes[rosterKey(sub.ID, "class-3-1")] = true

	res := &Resource{ClassID: "class-3-1"}
	first, err := engine.Evaluate(ctx, sub, PermGradesView, res)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := engine.Evaluate(ctx, sub, PermGradesView, res)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPermissionsForRole(t *testing.T) {
	engine := NewEngine(newFakeRoster())

	assert.Len(t, engine.PermissionsForRole(RoleHomeroomTeacher), len(AllPermissions()))
	assert.Len(t, engine.PermissionsForRole(RoleGeneralTeacher), 8)
	assert.Empty(t, engine.PermissionsForRole("janitor"))

	perms := engine.PermissionsForRole(RoleGeneralTeacher)
	for i := 1; i < len(perms); i++ {
		assert.Less(t, perms[i-1], perms[i])
	}
}

func TestHoldsAny(t *testing.T) {
	engine := NewEngine(newFakeRoster())

	assert.True(t, engine.HoldsAny(generalSubject(), PermClassManage, PermGradesView))
	assert.False(t, engine.HoldsAny(generalSubject(), PermClassManage, PermParentsContact))

	inactive := homeroomSubject()
	inactive.Active = false
	assert.False(t, engine.HoldsAny(inactive, PermStudentsView))

	unknown := Subject{ID: "x", Role: "principal", Active: true}
	assert.False(t, engine.HoldsAny(unknown, PermStudentsView))
}
