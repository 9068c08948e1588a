package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
)

// SubjectRoster supplies taught-subject ids when resolving a subject.
type SubjectRoster interface {
	TaughtSubjectIDs(ctx context.Context, teacherID string) ([]string, error)
}

// Service wraps authentication business rules and subject resolution.
type Service struct {
	repo   Repository
	roster SubjectRoster
}

// NewService constructs a new Service.
func NewService(repo Repository, roster SubjectRoster) *Service {
	return &Service{repo: repo, roster: roster}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return account, nil
}

// SubjectByID resolves the account into the policy subject the engine
// evaluates against. General teachers get their taught subject ids from
// the roster; homeroom teachers carry their homeroom class id.
func (s *Service) SubjectByID(ctx context.Context, id string) (*policy.Subject, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub := &policy.Subject{
		ID:     account.ID,
		Role:   policy.Role(account.Role),
		Active: account.IsActive,
	}
	switch sub.Role {
	case policy.RoleHomeroomTeacher:
		sub.HomeroomClassID = account.HomeroomClassID
	case policy.RoleGeneralTeacher:
		subjects, err := s.roster.TaughtSubjectIDs(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		sub.TaughtSubjectIDs = subjects
	}
	return sub, nil
}

// SubjectByEmail resolves a subject starting from an email address.
func (s *Service) SubjectByEmail(ctx context.Context, email string) (*policy.Subject, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.SubjectByID(ctx, account.ID)
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id, accountID string, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, accountID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
