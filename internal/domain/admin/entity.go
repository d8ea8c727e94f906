package admin

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents a back-office role
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
)

// AdminUser represents a back-office account. These are separate from
// customer identities, which come from the identity provider.
type AdminUser struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	PasswordHash string       `db:"password_hash" json:"-"`
	Role         Role         `db:"role" json:"role"`
	Name         string       `db:"name" json:"name"`
	IsActive     bool         `db:"is_active" json:"is_active"`
	LastLoginAt  sql.NullTime `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// HasPermission checks if the admin's role grants a permission
func (a *AdminUser) HasPermission(perm Permission) bool {
	for _, p := range RolePermissions[a.Role] {
		if p == perm {
			return true
		}
	}
	return false
}
