package students

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

// RepositoryPort defines data access methods for students.
type RepositoryPort interface {
	ListByClass(ctx context.Context, classID string) ([]Student, error)
	Get(ctx context.Context, id string) (Student, error)
	UpdateInfo(ctx context.Context, id string, update InfoUpdate) error
}

// ParentMailer queues outgoing guardian emails.
type ParentMailer interface {
	SendParentEmail(ctx context.Context, to, subject, body string) error
}

// Service handles student business logic. Every operation checks the
// policy engine against the concrete target before touching storage.
type Service struct {
	repo   RepositoryPort
	guard  shared.Guard
	mailer ParentMailer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, guard shared.Guard, mailer ParentMailer) *Service {
	return &Service{repo: repo, guard: guard, mailer: mailer}
}

// ListByClass returns the students of a class ordered with Indonesian
// collation.
func (s *Service) ListByClass(ctx context.Context, sub policy.Subject, classID string) ([]Student, error) {
	if err := s.guard.Check(ctx, sub, policy.PermStudentsView, &policy.Resource{ClassID: classID}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	c := collate.New(language.Indonesian)
	sort.SliceStable(list, func(i, j int) bool {
		return c.CompareString(list[i].Name, list[j].Name) < 0
	})
	return list, nil
}

// Get returns one student.
func (s *Service) Get(ctx context.Context, sub policy.Subject, id string) (Student, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	res := &policy.Resource{ClassID: st.ClassID, StudentID: st.ID}
	if err := s.guard.Check(ctx, sub, policy.PermStudentsView, res); err != nil {
		return Student{}, err
	}
	return st, nil
}

// ParentInfo returns guardian contact details for a student.
func (s *Service) ParentInfo(ctx context.Context, sub policy.Subject, id string) (Student, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	res := &policy.Resource{ClassID: st.ClassID, StudentID: st.ID}
	if err := s.guard.Check(ctx, sub, policy.PermParentsViewInfo, res); err != nil {
		return Student{}, err
	}
	return st, nil
}

// UpdateInfo edits a student's record.
func (s *Service) UpdateInfo(ctx context.Context, sub policy.Subject, id string, update InfoUpdate) error {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	res := &policy.Resource{ClassID: st.ClassID, StudentID: st.ID}
	if err := s.guard.Check(ctx, sub, policy.PermStudentsEditInfo, res); err != nil {
		return err
	}
	return s.repo.UpdateInfo(ctx, id, update)
}

// ContactParent queues an email to the student's guardian.
func (s *Service) ContactParent(ctx context.Context, sub policy.Subject, id, subjectLine, body string) error {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	res := &policy.Resource{ClassID: st.ClassID, StudentID: st.ID}
	if err := s.guard.Check(ctx, sub, policy.PermParentsContact, res); err != nil {
		return err
	}
	to := strings.TrimSpace(st.ParentEmail)
	if to == "" {
		return shared.ErrNotFound
	}
	return s.mailer.SendParentEmail(ctx, to, subjectLine, body)
}
