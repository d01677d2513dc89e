package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ServiCampo-api/internal/application/auth"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	rows map[string]*entity.User // clave: id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	for _, existing := range f.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.rows {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeEmployeeRepo struct {
	rows map[string]*entity.Employee
}

func (f *fakeEmployeeRepo) GetByID(id string) (*entity.Employee, error) { return f.rows[id], nil }

func newAuthUC() (*auth.AuthUseCase, *fakeUserRepo) {
	users := newFakeUserRepo()
	employees := &fakeEmployeeRepo{rows: map[string]*entity.Employee{
		"emp-1": {ID: "emp-1", Name: "Carlos Pérez", Active: true},
	}}
	uc := auth.NewAuthUseCase(users, employees, auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "servicampo-test",
	})
	return uc, users
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_AplicaDefaults(t *testing.T) {
	uc, _ := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "tecnico@servicampo.co",
		Password: "clave-segura-123",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, entity.RoleTecnico, user.Role, "rol por defecto debe ser tecnico")
	assert.Equal(t, "tecnico@servicampo.co", user.Name, "sin nombre, se usa el email")
	assert.Equal(t, "active", user.Status)
	assert.NotEmpty(t, user.ID)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "dup@servicampo.co", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "dup@servicampo.co", Password: "otra-clave-456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EmpleadoDebeExistir(t *testing.T) {
	uc, _ := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "campo@servicampo.co", Password: "clave-segura-123",
		EmployeeID: strPtr("no-existe"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "campo@servicampo.co", Password: "clave-segura-123",
		EmployeeID: strPtr("emp-1"),
	})
	require.NoError(t, err)
	require.NotNil(t, user.EmployeeID)
	assert.Equal(t, "emp-1", *user.EmployeeID)
}

func TestRegisterUser_NoGuardaPasswordEnPlano(t *testing.T) {
	uc, users := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{Email: "hash@servicampo.co", Password: "clave-segura-123"})
	require.NoError(t, err)

	stored, err := users.GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura-123", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"), "debe ser un hash bcrypt")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesCorrectas(t *testing.T) {
	uc, _ := newAuthUC()
	registered, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "login@servicampo.co", Password: "clave-segura-123",
		Role: entity.RoleOficina, Name: "Ana",
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "login@servicampo.co", Password: "clave-segura-123"})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, registered.ID, out.User.ID)
	assert.Equal(t, entity.RoleOficina, out.User.Role)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, users := newAuthUC()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "login@servicampo.co", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "no-existe@servicampo.co", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "login@servicampo.co", Password: "clave-incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Cuenta suspendida no entra aunque la clave sea correcta.
	for _, u := range users.rows {
		u.Status = "suspended"
	}
	_, err = uc.Login(dto.LoginRequest{Email: "login@servicampo.co", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
