package admin

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository abstracts admin account persistence.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	List(ctx context.Context) ([]*AdminUser, error)
	Create(ctx context.Context, a *AdminUser) error
	Update(ctx context.Context, a *AdminUser) error
	Delete(ctx context.Context, id uuid.UUID) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates the Postgres-backed repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	var a AdminUser
	err := r.db.GetContext(ctx, &a, `SELECT * FROM admin_users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	var a AdminUser
	err := r.db.GetContext(ctx, &a, `SELECT * FROM admin_users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*AdminUser, error) {
	var admins []*AdminUser
	err := r.db.SelectContext(ctx, &admins,
		`SELECT * FROM admin_users ORDER BY created_at`)
	return admins, err
}

func (r *postgresRepository) Create(ctx context.Context, a *AdminUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_users (id, email, password_hash, role, name, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.Name, a.IsActive, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *postgresRepository) Update(ctx context.Context, a *AdminUser) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE admin_users
		SET email = $2, password_hash = $3, role = $4, name = $5, is_active = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.Name, a.IsActive, a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *postgresRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// memoryRepository is the demo-mode admin store.
type memoryRepository struct {
	mu     sync.RWMutex
	admins map[uuid.UUID]*AdminUser
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{admins: make(map[uuid.UUID]*AdminUser)}
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.admins[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	out := *a
	return &out, nil
}

func (r *memoryRepository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) {
			out := *a
			return &out, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (r *memoryRepository) List(ctx context.Context) ([]*AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*AdminUser, 0, len(r.admins))
	for _, a := range r.admins {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepository) Create(ctx context.Context, a *AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.admins {
		if strings.EqualFold(existing.Email, a.Email) {
			return ErrEmailTaken
		}
	}
	copied := *a
	r.admins[a.ID] = &copied
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, a *AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[a.ID]; !ok {
		return ErrAdminNotFound
	}
	for _, existing := range r.admins {
		if existing.ID != a.ID && strings.EqualFold(existing.Email, a.Email) {
			return ErrEmailTaken
		}
	}
	copied := *a
	r.admins[a.ID] = &copied
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[id]; !ok {
		return ErrAdminNotFound
	}
	delete(r.admins, id)
	return nil
}

func (r *memoryRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.admins[id]
	if !ok {
		return ErrAdminNotFound
	}
	a.LastLoginAt = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}
