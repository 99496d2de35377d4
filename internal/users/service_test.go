package users

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/salespulse/salespulse/internal/shared"
)

type mockStore struct {
	users      map[int64]*User
	nextID     int64
	lastHash   string
	createErr  error
	updateArgs struct {
		name, role   *string
		isActive     *bool
		passwordHash *string
	}
	deactivated []int64
}

func newMockStore() *mockStore {
	return &mockStore{users: make(map[int64]*User), nextID: 1}
}

func (m *mockStore) ListUsers(ctx context.Context, orgID int64) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		if u.OrgID == orgID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockStore) GetUser(ctx context.Context, orgID, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok || u.OrgID != orgID {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockStore) CreateUser(ctx context.Context, user User, passwordHash string) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	id := m.nextID
	m.nextID++
	user.ID = id
	m.users[id] = &user
	m.lastHash = passwordHash
	return id, nil
}

func (m *mockStore) UpdateUser(ctx context.Context, orgID, id int64, name, role *string, isActive *bool, passwordHash *string) error {
	m.updateArgs.name = name
	m.updateArgs.role = role
	m.updateArgs.isActive = isActive
	m.updateArgs.passwordHash = passwordHash
	return nil
}

func (m *mockStore) DeactivateUser(ctx context.Context, orgID, id int64) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func managerTenant() shared.TenantContext {
	return shared.TenantContext{OrgID: 1, UserID: 2, Role: shared.RoleManager}
}

func TestCreateHashesPassword(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	user, err := svc.Create(context.Background(), managerTenant(), CreateUserRequest{
		Email:    " Ana@Example.COM ",
		Name:     "Ana",
		Role:     "sales_rep",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("email not normalised: %q", user.Email)
	}
	if user.Role != shared.RoleRep {
		t.Errorf("role = %q", user.Role)
	}
	if store.lastHash == "s3cret-pass" || store.lastHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(store.lastHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc := NewService(newMockStore())
	_, err := svc.Create(context.Background(), managerTenant(), CreateUserRequest{
		Email:    "b@example.com",
		Name:     "B",
		Role:     "setter",
		Password: "short",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMockStore())
	_, err := svc.Create(context.Background(), managerTenant(), CreateUserRequest{
		Email:    "c@example.com",
		Name:     "C",
		Role:     "admin",
		Password: "long-enough-pass",
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestCreateSurfacesEmailTaken(t *testing.T) {
	store := newMockStore()
	store.createErr = ErrEmailTaken
	svc := NewService(store)

	_, err := svc.Create(context.Background(), managerTenant(), CreateUserRequest{
		Email:    "dup@example.com",
		Name:     "Dup",
		Role:     "sales_rep",
		Password: "long-enough-pass",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestNonManagerCannotManageUsers(t *testing.T) {
	svc := NewService(newMockStore())
	rep := shared.TenantContext{OrgID: 1, UserID: 7, Role: shared.RoleRep}

	if _, err := svc.List(context.Background(), rep); !errors.Is(err, shared.ErrPermissionDenied) {
		t.Errorf("list: %v", err)
	}
	if _, err := svc.Create(context.Background(), rep, CreateUserRequest{}); !errors.Is(err, shared.ErrPermissionDenied) {
		t.Errorf("create: %v", err)
	}
	if err := svc.Deactivate(context.Background(), rep, 1); !errors.Is(err, shared.ErrPermissionDenied) {
		t.Errorf("deactivate: %v", err)
	}
}

func TestUpdateHashesNewPassword(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	pass := "replacement-pass"
	if err := svc.Update(context.Background(), managerTenant(), 1, UpdateUserRequest{Password: &pass}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.updateArgs.passwordHash == nil {
		t.Fatal("password hash not forwarded")
	}
	if *store.updateArgs.passwordHash == pass {
		t.Fatal("password must be hashed before storage")
	}
}

func TestDeactivate(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	if err := svc.Deactivate(context.Background(), managerTenant(), 42); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if len(store.deactivated) != 1 || store.deactivated[0] != 42 {
		t.Errorf("deactivated = %v", store.deactivated)
	}
}
