package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/taller-api/internal/application/auth"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/authz"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/internal/infrastructure/session"
	"github.com/jhoicas/taller-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	uc      *auth.AuthUseCase
	manager authz.Actor
}

func newFixture(t *testing.T, opts auth.Options) *fixture {
	t.Helper()
	store := memory.NewStore()
	tokens, err := session.NewTokenStore(session.TokenConfig{
		Secret: "test-secret-key-for-unit-tests",
		Issuer: "taller-api-test",
		TTL:    time.Hour,
	}, store.RevokedTokens())
	require.NoError(t, err)

	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	digest, err := hasher.Hash("manager123")
	require.NoError(t, err)
	mgr := &entity.User{Email: "manager@example.com", Name: "Manager", PasswordHash: digest, Role: entity.RoleManager}
	require.NoError(t, store.Repos().Users.Create(context.Background(), mgr))

	return &fixture{
		store:   store,
		uc:      auth.NewAuthUseCase(store.Repos().Users, tokens, hasher, opts),
		manager: authz.Actor{ID: mgr.ID, Role: mgr.Role},
	}
}

func (f *fixture) register(t *testing.T, email, pass string) *dto.UserResponse {
	t.Helper()
	u, err := f.uc.Register(context.Background(), authz.Actor{}, dto.RegisterRequest{Email: email, Password: pass})
	require.NoError(t, err)
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_EmployeePorDefecto(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	u := f.register(t, "ana@example.com", "secreto123")

	assert.Equal(t, entity.RoleEmployee, u.Role, "el rol por defecto es employee")
	assert.Equal(t, "ana", u.Name, "sin nombre se usa la parte local del email")
	assert.NotZero(t, u.ID)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	f.register(t, "ana@example.com", "secreto123")

	_, err := f.uc.Register(context.Background(), authz.Actor{}, dto.RegisterRequest{Email: "ana@example.com", Password: "otro-secreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_ManagerRequiereManager(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	in := dto.RegisterRequest{Email: "jefe@example.com", Password: "secreto123", Role: entity.RoleManager}

	_, err := f.uc.Register(context.Background(), authz.Actor{}, in)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "anónimo no puede crear managers")

	emp := f.register(t, "ana@example.com", "secreto123")
	_, err = f.uc.Register(context.Background(), authz.Actor{ID: emp.ID, Role: emp.Role}, in)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un employee no puede crear managers")

	u, err := f.uc.Register(context.Background(), f.manager, in)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, u.Role)
}

func TestRegister_Cerrado(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: false})
	in := dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123"}

	_, err := f.uc.Register(context.Background(), authz.Actor{}, in)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Register(context.Background(), f.manager, in)
	assert.NoError(t, err, "un manager sí puede registrar con el registro cerrado")
}

func TestRegister_Validaciones(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	cases := []dto.RegisterRequest{
		{Email: "sin-arroba", Password: "secreto123"},
		{Email: "ana@example.com", Password: "corta"},
		{Email: "ana@example.com", Password: "secreto123", Role: "admin"},
	}
	for _, in := range cases {
		_, err := f.uc.Register(context.Background(), authz.Actor{}, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %+v debe ser inválida", in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Resolve / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ResuelveActor(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	ctx := context.Background()

	resp, err := f.uc.Login(ctx, dto.LoginRequest{Email: "  manager@example.com ", Password: "manager123"})
	require.NoError(t, err, "el email se recorta antes de buscar")
	assert.Equal(t, auth.SessionKindBearer, resp.TokenType)
	assert.Equal(t, entity.RoleManager, resp.User.Role)

	actor, err := f.uc.Resolve(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, f.manager, actor)
}

func TestLogin_ErrorUniforme(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	ctx := context.Background()

	_, errPass := f.uc.Login(ctx, dto.LoginRequest{Email: "manager@example.com", Password: "incorrecta"})
	_, errEmail := f.uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "manager123"})

	assert.ErrorIs(t, errPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, errPass.Error(), errEmail.Error(), "no se debe distinguir email inexistente de password incorrecto")
}

func TestLogin_EmailDistingueMayusculas(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "MANAGER@Example.COM", Password: "manager123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "el email debe coincidir exactamente")
}

func TestRegister_EmailDuplicadoConMayusculas(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	f.register(t, "ana@example.com", "secreto123")

	_, err := f.uc.Register(context.Background(), authz.Actor{}, dto.RegisterRequest{Email: "ANA@example.com", Password: "otro-secreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists, "la unicidad no distingue mayúsculas")
}

func TestLogin_CamposVacios(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: " ", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_RolReleidoEnCadaPeticion(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	ctx := context.Background()
	emp := f.register(t, "ana@example.com", "secreto123")

	resp, err := f.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)

	f.store.SetRole(emp.ID, entity.RoleManager)
	actor, err := f.uc.Resolve(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, actor.Role, "el rol se lee del almacén, no del token")
}

func TestLogout_InvalidaLaSesion(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	ctx := context.Background()

	resp, err := f.uc.Login(ctx, dto.LoginRequest{Email: "manager@example.com", Password: "manager123"})
	require.NoError(t, err)
	require.NoError(t, f.uc.Logout(ctx, resp.Token))

	_, err = f.uc.Resolve(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "tras logout el token no resuelve")
}

func TestResolve_TokenVacio(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	_, err := f.uc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	f := newFixture(t, auth.Options{RegisterOpen: true})
	me, err := f.uc.Me(context.Background(), f.manager)
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", me.Email)

	_, err = f.uc.Me(context.Background(), authz.Actor{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
