package counseling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

// RepositoryPort defines data access methods for counseling records.
type RepositoryPort interface {
	Create(ctx context.Context, rec SessionRecord) error
	ListByStudent(ctx context.Context, studentID string) ([]SessionRecord, error)
	Get(ctx context.Context, id string) (SessionRecord, error)
}

// Service handles counseling business logic behind explicit policy guards.
type Service struct {
	repo  RepositoryPort
	guard shared.Guard
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, guard shared.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// Conduct records a counseling session. General teachers may only
// counsel students they teach, the policy resource carries the student.
func (s *Service) Conduct(ctx context.Context, sub policy.Subject, rec SessionRecord) (SessionRecord, error) {
	if rec.StudentID == "" || rec.Topic == "" {
		return SessionRecord{}, fmt.Errorf("%w: student and topic required", httpx.ErrValidation)
	}
	res := &policy.Resource{StudentID: rec.StudentID}
	if err := s.guard.Check(ctx, sub, policy.PermCounselingConduct, res); err != nil {
		return SessionRecord{}, err
	}
	rec.ID = uuid.NewString()
	rec.CounselorID = sub.ID
	if rec.HeldAt.IsZero() {
		rec.HeldAt = time.Now()
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}

// History returns a student's counseling records.
func (s *Service) History(ctx context.Context, sub policy.Subject, studentID string) ([]SessionRecord, error) {
	res := &policy.Resource{StudentID: studentID}
	if err := s.guard.Check(ctx, sub, policy.PermCounselingViewRecords, res); err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, studentID)
}

// Get returns a single counseling record.
func (s *Service) Get(ctx context.Context, sub policy.Subject, id string) (SessionRecord, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return SessionRecord{}, err
	}
	res := &policy.Resource{StudentID: rec.StudentID}
	if err := s.guard.Check(ctx, sub, policy.PermCounselingViewRecords, res); err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}
