package admin_test

import (
	"context"
	"testing"

	"github.com/sanskriti-tours/sanskriti-api/internal/domain/admin"
)

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newService(t *testing.T) *admin.Service {
	t.Helper()
	svc := admin.NewService(admin.NewMemoryRepository())
	requireNoError(t, svc.Bootstrap(context.Background(), "root@example.com", "changeme-now"))
	return svc
}

func TestBootstrapCreatesSuperAdminOnce(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	// Second bootstrap is a no-op.
	requireNoError(t, svc.Bootstrap(ctx, "other@example.com", "irrelevant123"))

	admins, err := svc.List(ctx)
	requireNoError(t, err)
	if len(admins) != 1 {
		t.Fatalf("got %d admins, want 1", len(admins))
	}
	if admins[0].Role != admin.RoleSuperAdmin {
		t.Errorf("role = %s, want super_admin", admins[0].Role)
	}
}

func TestLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a, err := svc.Login(ctx, "root@example.com", "changeme-now")
	requireNoError(t, err)
	if a.Email != "root@example.com" {
		t.Errorf("email = %s", a.Email)
	}

	if _, err := svc.Login(ctx, "root@example.com", "wrong-password"); err != admin.ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "changeme-now"); err != admin.ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRoleHierarchy(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	// An admin cannot create another admin of equal rank.
	_, err := svc.Create(ctx, admin.RoleAdmin, &admin.CreateAdminRequest{
		Email:    "peer@example.com",
		Password: "changeme-now",
		Name:     "Peer",
		Role:     "admin",
	})
	if err != admin.ErrCannotManageRole {
		t.Errorf("err = %v, want ErrCannotManageRole", err)
	}

	manager, err := svc.Create(ctx, admin.RoleAdmin, &admin.CreateAdminRequest{
		Email:    "manager@example.com",
		Password: "changeme-now",
		Name:     "Manager",
		Role:     "manager",
	})
	requireNoError(t, err)
	if manager.Role != admin.RoleManager {
		t.Errorf("role = %s, want manager", manager.Role)
	}
	if !manager.HasPermission(admin.PermViewBookings) {
		t.Error("manager should view bookings")
	}
	if manager.HasPermission(admin.PermManageCatalog) {
		t.Error("manager should not manage the catalog")
	}
}

func TestCannotDeleteSelf(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	admins, err := svc.List(ctx)
	requireNoError(t, err)
	root := admins[0]

	if err := svc.Delete(ctx, root.ID, root.Role, root.ID); err != admin.ErrCannotDeleteSelf {
		t.Errorf("err = %v, want ErrCannotDeleteSelf", err)
	}
}
