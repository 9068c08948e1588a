package grades

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

// RepositoryPort defines data access methods for grades.
type RepositoryPort interface {
	ListByClass(ctx context.Context, classID, subjectID, termID string) ([]Grade, error)
	Upsert(ctx context.Context, g Grade) error
	CreateExport(ctx context.Context, exp Export) error
	GetExport(ctx context.Context, id string) (Export, error)
}

// ExportEnqueuer hands export requests to the background worker.
type ExportEnqueuer interface {
	EnqueueGradeExport(ctx context.Context, exportID string, scope ExportScope) error
}

// Service handles grade business logic behind explicit policy guards.
type Service struct {
	repo     RepositoryPort
	guard    shared.Guard
	enqueuer ExportEnqueuer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, guard shared.Guard, enqueuer ExportEnqueuer) *Service {
	return &Service{repo: repo, guard: guard, enqueuer: enqueuer}
}

// ListByClass returns recorded grades for a class/subject/term.
func (s *Service) ListByClass(ctx context.Context, sub policy.Subject, classID, subjectID, termID string) ([]Grade, error) {
	if err := s.guard.Check(ctx, sub, policy.PermGradesView, &policy.Resource{ClassID: classID}); err != nil {
		return nil, err
	}
	return s.repo.ListByClass(ctx, classID, subjectID, termID)
}

// Record upserts a grade. The resource carries the subject id so general
// teachers are scoped to subjects they actually teach.
func (s *Service) Record(ctx context.Context, sub policy.Subject, g Grade) error {
	if g.StudentID == "" || g.SubjectID == "" || g.TermID == "" {
		return errors.New("grades: student, subject and term required")
	}
	res := &policy.Resource{ClassID: g.ClassID, SubjectID: g.SubjectID, StudentID: g.StudentID}
	if err := s.guard.Check(ctx, sub, policy.PermGradesManage, res); err != nil {
		return err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.RecordedBy = sub.ID
	return s.repo.Upsert(ctx, g)
}

// RequestExport registers an export and queues it for the worker,
// returning the export id for polling.
func (s *Service) RequestExport(ctx context.Context, sub policy.Subject, scope ExportScope) (string, error) {
	res := &policy.Resource{ClassID: scope.ClassID, SubjectID: scope.SubjectID}
	if err := s.guard.Check(ctx, sub, policy.PermGradesExport, res); err != nil {
		return "", err
	}
	exp := Export{
		ID:          uuid.NewString(),
		RequestedBy: sub.ID,
		ClassID:     scope.ClassID,
		SubjectID:   scope.SubjectID,
		TermID:      scope.TermID,
		Status:      ExportStatusPending,
	}
	if err := s.repo.CreateExport(ctx, exp); err != nil {
		return "", err
	}
	if err := s.enqueuer.EnqueueGradeExport(ctx, exp.ID, scope); err != nil {
		return "", err
	}
	return exp.ID, nil
}

// ExportStatus returns the state of a previously requested export.
func (s *Service) ExportStatus(ctx context.Context, sub policy.Subject, id string) (Export, error) {
	if err := s.guard.Check(ctx, sub, policy.PermGradesExport, nil); err != nil {
		return Export{}, err
	}
	return s.repo.GetExport(ctx, id)
}
