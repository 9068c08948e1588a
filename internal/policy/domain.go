package policy

import (
	"context"
	"errors"
)

// Role is a fixed category of teacher determining baseline permissions.
type Role string

const (
	// RoleHomeroomTeacher is the wali kelas responsible for one class.
	RoleHomeroomTeacher Role = "homeroom_teacher"
	// RoleGeneralTeacher teaches one or more subjects across classes.
	RoleGeneralTeacher Role = "general_teacher"
)

// Valid reports whether the role is part of the closed enumeration.
func (r Role) Valid() bool {
	return r == RoleHomeroomTeacher || r == RoleGeneralTeacher
}

// Permission is an atomic capability token.
type Permission string

const (
	PermStudentsView     Permission = "students.view"
	PermStudentsManage   Permission = "students.manage"
	PermStudentsEditInfo Permission = "students.edit_info"

	PermGradesView   Permission = "grades.view"
	PermGradesManage Permission = "grades.manage"
	PermGradesExport Permission = "grades.export"

	PermAttendanceView   Permission = "attendance.view"
	PermAttendanceManage Permission = "attendance.manage"

	PermParentsViewInfo Permission = "parents.view_info"
	PermParentsContact  Permission = "parents.contact"

	PermClassManage      Permission = "class.manage"
	PermClassViewReports Permission = "class.view_reports"

	PermCounselingConduct     Permission = "counseling.conduct"
	PermCounselingViewRecords Permission = "counseling.view_records"
)

// AllPermissions lists every permission in the closed enumeration.
func AllPermissions() []Permission {
	return []Permission{
		PermStudentsView, PermStudentsManage, PermStudentsEditInfo,
		PermGradesView, PermGradesManage, PermGradesExport,
		PermAttendanceView, PermAttendanceManage,
		PermParentsViewInfo, PermParentsContact,
		PermClassManage, PermClassViewReports,
		PermCounselingConduct, PermCounselingViewRecords,
	}
}

// Valid reports whether the permission is part of the closed enumeration.
func (p Permission) Valid() bool {
	for _, known := range AllPermissions() {
		if p == known {
			return true
		}
	}
	return false
}

// Subject is the acting teacher as resolved by the authentication layer.
// HomeroomClassID is set only for homeroom teachers; TaughtSubjectIDs only
// for general teachers. The engine consults the attribute matching the role.
type Subject struct {
	ID               string
	Role             Role
	Active           bool
	HomeroomClassID  string
	TaughtSubjectIDs []string
}

func (s Subject) teachesSubject(subjectID string) bool {
	for _, id := range s.TaughtSubjectIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// Resource describes the object a permission check narrows against.
// Empty fields mean "not supplied", which is a meaningful input rather
// than an error; a nil *Resource means no context at all.
type Resource struct {
	ClassID   string
	SubjectID string
	StudentID string
}

// Reason classifies why a decision denied. Closed set so callers can
// branch on it or localize it.
type Reason string

const (
	ReasonSubjectInactive      Reason = "subject_inactive"
	ReasonPermissionNotGranted Reason = "permission_not_granted_to_role"
	ReasonNotOwnSubject        Reason = "not_own_subject"
	ReasonNotOwnClass          Reason = "not_own_class"
	ReasonNotOwnStudent        Reason = "not_own_student"
)

// Decision is the outcome of one evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow is the positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny builds a negative decision with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Precondition violations. Unknown enum values are programming errors in
// the caller and are surfaced as errors, never converted into denials.
var (
	ErrUnknownRole       = errors.New("policy: unknown role")
	ErrUnknownPermission = errors.New("policy: unknown permission")
)

// Roster resolves teaching relationships. The engine never implements
// these itself; production wiring supplies a roster-backed store and
// tests supply fakes with deterministic relationships.
type Roster interface {
	TeachesStudent(ctx context.Context, teacherID, studentID string) (bool, error)
	TeachesClass(ctx context.Context, teacherID, classID string) (bool, error)
}
