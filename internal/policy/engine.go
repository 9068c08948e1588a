package policy

import (
	"context"
	"sort"
)

// rolePermissions is the static baseline table. Immutable after process
// startup; extending Role requires extending this table.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleHomeroomTeacher: permissionSet(
		PermStudentsView, PermStudentsManage, PermStudentsEditInfo,
		PermGradesView, PermGradesManage, PermGradesExport,
		PermAttendanceView, PermAttendanceManage,
		PermParentsViewInfo, PermParentsContact,
		PermClassManage, PermClassViewReports,
		PermCounselingConduct, PermCounselingViewRecords,
	),
	RoleGeneralTeacher: permissionSet(
		PermStudentsView,
		PermGradesView, PermGradesManage, PermGradesExport,
		PermAttendanceView,
		PermParentsViewInfo,
		PermClassViewReports,
		PermCounselingConduct,
	),
}

func permissionSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Engine evaluates resource-scoped authorization decisions. Stateless
// beyond the static tables; safe for concurrent use.
type Engine struct {
	roster Roster
}

// NewEngine constructs an Engine with the injected roster lookups.
func NewEngine(roster Roster) *Engine {
	return &Engine{roster: roster}
}

// Evaluate produces exactly one decision for (subject, permission,
// resource). The pipeline is ordered: activation gate, baseline role
// check, then role-specific resource refinement; the first terminal rule
// wins. A denial is a normal outcome, not an error. The error return
// carries only precondition violations and roster lookup failures.
func (e *Engine) Evaluate(ctx context.Context, sub Subject, perm Permission, res *Resource) (Decision, error) {
	if !sub.Role.Valid() {
		return Decision{}, ErrUnknownRole
	}
	if !perm.Valid() {
		return Decision{}, ErrUnknownPermission
	}

	if !sub.Active {
		return Deny(ReasonSubjectInactive), nil
	}

	if _, ok := rolePermissions[sub.Role][perm]; !ok {
		return Deny(ReasonPermissionNotGranted), nil
	}

	if sub.Role == RoleGeneralTeacher {
		return e.refineGeneral(ctx, sub, perm, res)
	}
	return e.refineHomeroom(sub, perm, res), nil
}

// refineGeneral narrows baseline grants to the subjects, students and
// classes the general teacher actually teaches. Missing resource fields
// deny: a general teacher never bulk-manages grades or counsels without
// declaring the target.
func (e *Engine) refineGeneral(ctx context.Context, sub Subject, perm Permission, res *Resource) (Decision, error) {
	switch perm {
	case PermGradesManage:
		if res == nil || res.SubjectID == "" {
			return Deny(ReasonNotOwnSubject), nil
		}
		if !sub.teachesSubject(res.SubjectID) {
			return Deny(ReasonNotOwnSubject), nil
		}
	case PermCounselingConduct:
		if res == nil || res.StudentID == "" {
			return Deny(ReasonNotOwnStudent), nil
		}
		teaches, err := e.roster.TeachesStudent(ctx, sub.ID, res.StudentID)
		if err != nil {
			return Decision{}, err
		}
		if !teaches {
			return Deny(ReasonNotOwnStudent), nil
		}
	case PermStudentsView, PermGradesView, PermAttendanceView:
		if res == nil || res.ClassID == "" {
			break
		}
		teaches, err := e.roster.TeachesClass(ctx, sub.ID, res.ClassID)
		if err != nil {
			return Decision{}, err
		}
		if !teaches {
			return Deny(ReasonNotOwnClass), nil
		}
	}
	return Allow(), nil
}

// refineHomeroom restricts class-targeted management to the teacher's own
// homeroom class. An absent class id means a homeroom-wide operation and
// is permitted.
func (e *Engine) refineHomeroom(sub Subject, perm Permission, res *Resource) Decision {
	switch perm {
	case PermClassManage, PermStudentsManage, PermStudentsEditInfo:
		if res == nil || res.ClassID == "" {
			return Allow()
		}
		if res.ClassID != sub.HomeroomClassID {
			return Deny(ReasonNotOwnClass)
		}
	}
	return Allow()
}

// PermissionsForRole returns the baseline table entry sorted by name.
// Total: unknown roles yield an empty set rather than an error.
func (e *Engine) PermissionsForRole(role Role) []Permission {
	set, ok := rolePermissions[role]
	if !ok {
		return []Permission{}
	}
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// HoldsAny applies only the activation gate and the baseline table,
// ignoring resources. Used by the HTTP middleware for coarse route
// gating; handlers still evaluate with the concrete resource.
func (e *Engine) HoldsAny(sub Subject, perms ...Permission) bool {
	if !sub.Active {
		return false
	}
	granted, ok := rolePermissions[sub.Role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if _, ok := granted[p]; ok {
			return true
		}
	}
	return false
}
