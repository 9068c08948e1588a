package roster

import (
	"context"
	"errors"
)

// RepositoryPort defines data access methods for teaching relationships.
type RepositoryPort interface {
	TeachesClass(ctx context.Context, teacherID, classID string) (bool, error)
	TeachesStudent(ctx context.Context, teacherID, studentID string) (bool, error)
	TaughtSubjectIDs(ctx context.Context, teacherID string) ([]string, error)
	ListAssignments(ctx context.Context, teacherID string) ([]TeacherAssignment, error)
	CreateAssignment(ctx context.Context, a TeacherAssignment) error
	DeleteAssignment(ctx context.Context, id string) error
}

// Service resolves teaching relationships for the policy engine, caching
// lookups in Redis under a version key bumped on every assignment write.
// It satisfies policy.Roster.
type Service struct {
	repo  RepositoryPort
	cache *Cache
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// TeachesClass reports whether the teacher teaches in the given class.
func (s *Service) TeachesClass(ctx context.Context, teacherID, classID string) (bool, error) {
	if teacherID == "" || classID == "" {
		return false, nil
	}
	key, err := s.cache.BuildKey(ctx, "roster", "teaches_class", teacherID, classID)
	if err != nil {
		return false, err
	}
	return s.cache.FetchBool(ctx, key, func(ctx context.Context) (bool, error) {
		return s.repo.TeachesClass(ctx, teacherID, classID)
	})
}

// TeachesStudent reports whether the teacher teaches the given student.
func (s *Service) TeachesStudent(ctx context.Context, teacherID, studentID string) (bool, error) {
	if teacherID == "" || studentID == "" {
		return false, nil
	}
	key, err := s.cache.BuildKey(ctx, "roster", "teaches_student", teacherID, studentID)
	if err != nil {
		return false, err
	}
	return s.cache.FetchBool(ctx, key, func(ctx context.Context) (bool, error) {
		return s.repo.TeachesStudent(ctx, teacherID, studentID)
	})
}

// TaughtSubjectIDs returns the subject ids the teacher is assigned to.
func (s *Service) TaughtSubjectIDs(ctx context.Context, teacherID string) ([]string, error) {
	return s.repo.TaughtSubjectIDs(ctx, teacherID)
}

// ListAssignments returns the teacher's assignments.
func (s *Service) ListAssignments(ctx context.Context, teacherID string) ([]TeacherAssignment, error) {
	return s.repo.ListAssignments(ctx, teacherID)
}

// Assign records a teacher assignment and invalidates cached lookups.
func (s *Service) Assign(ctx context.Context, a TeacherAssignment) error {
	if a.TeacherID == "" || a.ClassID == "" || a.SubjectID == "" {
		return errors.New("roster: teacher, class and subject required")
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}

// Unassign removes a teacher assignment and invalidates cached lookups.
func (s *Service) Unassign(ctx context.Context, id string) error {
	if err := s.repo.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	return s.cache.Bump(ctx)
}
