package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

// RepositoryPort defines data access methods for attendance.
type RepositoryPort interface {
	ListByClassDate(ctx context.Context, classID string, date time.Time) ([]Entry, error)
	Mark(ctx context.Context, e Entry) error
}

// Service handles attendance business logic behind explicit policy guards.
type Service struct {
	repo  RepositoryPort
	guard shared.Guard
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, guard shared.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// ListByClassDate returns the attendance sheet for a class and date.
func (s *Service) ListByClassDate(ctx context.Context, sub policy.Subject, classID string, date time.Time) ([]Entry, error) {
	if err := s.guard.Check(ctx, sub, policy.PermAttendanceView, &policy.Resource{ClassID: classID}); err != nil {
		return nil, err
	}
	return s.repo.ListByClassDate(ctx, classID, date)
}

// Mark records one student's attendance for a date.
func (s *Service) Mark(ctx context.Context, sub policy.Subject, e Entry) error {
	if !ValidStatus(e.Status) {
		return fmt.Errorf("%w: unknown attendance status %q", httpx.ErrValidation, e.Status)
	}
	res := &policy.Resource{ClassID: e.ClassID, StudentID: e.StudentID}
	if err := s.guard.Check(ctx, sub, policy.PermAttendanceManage, res); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.MarkedBy = sub.ID
	return s.repo.Mark(ctx, e)
}
