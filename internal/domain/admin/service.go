package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sanskriti-tours/sanskriti-api/internal/pkg/password"
)

// Service handles admin account business logic
type Service struct {
	repo Repository
}

// NewService creates admin service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Login verifies credentials and returns the account.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*AdminUser, error) {
	a, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !a.IsActive {
		return nil, ErrAdminInactive
	}

	if err := s.repo.TouchLastLogin(ctx, a.ID); err != nil {
		log.Warn().Err(err).Str("admin_id", a.ID.String()).Msg("Failed to record admin login")
	}
	return a, nil
}

// GetAdminByID returns an admin account.
func (s *Service) GetAdminByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all admin accounts.
func (s *Service) List(ctx context.Context) ([]*AdminUser, error) {
	return s.repo.List(ctx)
}

// Create adds a back-office account. The actor can only create roles
// below their own.
func (s *Service) Create(ctx context.Context, actorRole Role, req *CreateAdminRequest) (*AdminUser, error) {
	role := Role(req.Role)
	if !CanManage(actorRole, role) {
		return nil, ErrCannotManageRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	a := &AdminUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		Name:         req.Name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update edits a back-office account.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, actorRole Role, id uuid.UUID, req *UpdateAdminRequest) (*AdminUser, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ID != actorID && !CanManage(actorRole, a.Role) {
		return nil, ErrCannotManageRole
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Role != nil {
		newRole := Role(*req.Role)
		if !CanManage(actorRole, newRole) {
			return nil, ErrCannotManageRole
		}
		a.Role = newRole
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
	}
	a.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes a back-office account.
func (s *Service) Delete(ctx context.Context, actorID uuid.UUID, actorRole Role, id uuid.UUID) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanManage(actorRole, a.Role) {
		return ErrCannotManageRole
	}
	return s.repo.Delete(ctx, id)
}

// Bootstrap ensures a super admin exists, creating one from the given
// credentials when the store is empty. Used on first deploy and in
// demo mode.
func (s *Service) Bootstrap(ctx context.Context, email, plaintext string) error {
	if email == "" || plaintext == "" {
		return nil
	}
	admins, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		return nil
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return err
	}
	now := time.Now()
	a := &AdminUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         RoleSuperAdmin,
		Name:         "Super Admin",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	log.Info().Str("email", a.Email).Msg("Bootstrapped super admin account")
	return nil
}
