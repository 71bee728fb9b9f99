package service

import (
	"errors"
	"testing"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	created *model.User
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user %s", email)
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	if f.created != nil && f.created.ID == id {
		return f.created, nil
	}
	return nil, apperr.NotFound("user %s", id)
}

func (f *fakeUserRepo) Create(user *model.User) error {
	user.ID = uuid.New()
	f.created = user
	return nil
}

func (f *fakeUserRepo) Update(user *model.User) error              { return nil }
func (f *fakeUserRepo) Delete(id uuid.UUID) error                  { return nil }
func (f *fakeUserRepo) UpdatePassword(uuid.UUID, string) error     { return nil }
func (f *fakeUserRepo) FindAll() ([]model.User, error)             { return nil, nil }
func (f *fakeUserRepo) UpdateTokenVersion(uuid.UUID, string) error { return nil }
func (f *fakeUserRepo) UpdateLastSeen(uuid.UUID) error             { return nil }
func (f *fakeUserRepo) UpdatePrivileges(id uuid.UUID, privileges []model.Privilege) error {
	return nil
}

type fakeRoleRepo struct {
	roles map[uint]*model.Role
}

func (f *fakeRoleRepo) FindAll() ([]model.Role, error) { return nil, nil }
func (f *fakeRoleRepo) FindByID(id uint) (*model.Role, error) {
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return nil, apperr.NotFound("role %d", id)
}
func (f *fakeRoleRepo) FindByCode(code string) (*model.Role, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRoleRepo) Create(*model.Role) error { return nil }
func (f *fakeRoleRepo) SeedDefaults() error      { return nil }

type fakePrivilegeRepo struct {
	known map[string]model.Privilege
}

func (f *fakePrivilegeRepo) FindByCode(code string) (*model.Privilege, error) {
	if p, ok := f.known[code]; ok {
		return &p, nil
	}
	return nil, apperr.NotFound("privilege %s", code)
}
func (f *fakePrivilegeRepo) FindByCodes(codes []string) ([]model.Privilege, error) {
	var out []model.Privilege
	for _, code := range codes {
		if p, ok := f.known[code]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakePrivilegeRepo) FindAll() ([]model.Privilege, error) { return nil, nil }
func (f *fakePrivilegeRepo) Create(*model.Privilege) error       { return nil }
func (f *fakePrivilegeRepo) SeedDefaults() error                 { return nil }

func newUserFixture() (*fakeUserRepo, *fakeRoleRepo, UserService) {
	users := &fakeUserRepo{byEmail: map[string]*model.User{}}
	roles := &fakeRoleRepo{roles: map[uint]*model.Role{
		1: {
			ID:   1,
			Code: model.RoleWarehouseStaff,
			Privileges: []model.Privilege{
				{ID: 1, Code: "batch:view"},
				{ID: 2, Code: "movement:create"},
			},
		},
	}}
	privileges := &fakePrivilegeRepo{known: map[string]model.Privilege{
		"batch:view":      {ID: 1, Code: "batch:view"},
		"movement:create": {ID: 2, Code: "movement:create"},
	}}
	return users, roles, NewUserService(users, privileges, roles)
}

func TestCreateUserCopiesRolePrivileges(t *testing.T) {
	users, _, svc := newUserFixture()

	user, err := svc.CreateUser(&CreateUserRequest{
		Email:    "staff@example.com",
		Password: "secret1",
		FullName: "Stock Clerk",
		RoleID:   1,
	}, "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if users.created == nil {
		t.Fatal("user was not persisted")
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}
	if !user.CheckPassword("secret1") {
		t.Error("password was not hashed and stored")
	}
	if !user.HasPrivilege("movement:create") {
		t.Errorf("role privileges not copied, got %v", user.GetPrivilegeCodes())
	}
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	users, _, svc := newUserFixture()

	_, err := svc.CreateUser(&CreateUserRequest{
		Email:    "  Staff@Example.COM ",
		Password: "secret1",
		FullName: "Stock Clerk",
		RoleID:   1,
	}, "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if users.created.Email != "staff@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", users.created.Email)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users, _, svc := newUserFixture()
	existing := &model.User{Email: "staff@example.com"}
	existing.ID = uuid.New()
	users.byEmail["staff@example.com"] = existing

	_, err := svc.CreateUser(&CreateUserRequest{
		Email:    "staff@example.com",
		Password: "secret1",
		FullName: "Stock Clerk",
		RoleID:   1,
	}, "admin")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	_, _, svc := newUserFixture()

	_, err := svc.CreateUser(&CreateUserRequest{
		Email:    "staff@example.com",
		Password: "secret1",
		FullName: "Stock Clerk",
		RoleID:   99,
	}, "admin")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpdateUserPrivilegesRejectsUnknownCode(t *testing.T) {
	users, _, svc := newUserFixture()
	existing := &model.User{Email: "staff@example.com"}
	existing.ID = uuid.New()
	users.byEmail["staff@example.com"] = existing

	_, err := svc.UpdateUserPrivileges(existing.ID, []string{"batch:view", "warp:drive"}, "admin")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
