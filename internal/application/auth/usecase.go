package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/authz"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

const minPasswordLength = 8

// Options interruptores del caso de uso de auth.
type Options struct {
	RegisterOpen bool // false: solo un manager autenticado puede registrar usuarios
}

// AuthUseCase verificador de credenciales, resolvedor de sesiones y registro.
type AuthUseCase struct {
	users    repository.UserRepository
	sessions SessionStore
	hasher   PasswordHasher
	opts     Options

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, sessions SessionStore, hasher PasswordHasher, opts Options) *AuthUseCase {
	return &AuthUseCase{users: users, sessions: sessions, hasher: hasher, opts: opts}
}

// Login verifica email/password y crea una sesión ligada a (user.id, user.role).
// Email inexistente y password incorrecto devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput)
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// misma latencia que una verificación real
		uc.hasher.Verify(in.Password, uc.dummy())
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	sess, err := uc.sessions.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("crear sesión: %w", err)
	}
	return &dto.LoginResponse{
		Token:     sess.Token,
		TokenType: sess.Kind,
		ExpiresAt: sess.ExpiresAt,
		User:      *toUserResponse(user),
	}, nil
}

// Resolve traduce el token de la petición a un actor. El rol se relee del almacén de
// identidades en cada llamada; nunca se confía en lo que traiga el token.
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (authz.Actor, error) {
	if token == "" {
		return authz.Actor{}, domain.ErrUnauthorized
	}
	userID, err := uc.sessions.Lookup(ctx, token)
	if err != nil {
		return authz.Actor{}, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return authz.Actor{}, err
	}
	if user == nil {
		return authz.Actor{}, domain.ErrUnauthorized
	}
	return authz.Actor{ID: user.ID, Role: user.Role}, nil
}

// Logout invalida la sesión actual de inmediato.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	return uc.sessions.Revoke(ctx, token)
}

// Me devuelve la identidad actual.
func (uc *AuthUseCase) Me(ctx context.Context, actor authz.Actor) (*dto.UserResponse, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return toUserResponse(user), nil
}

// Register crea un usuario con password hasheado. Crear un manager, o cualquier usuario con
// el registro cerrado, requiere un manager autenticado.
func (uc *AuthUseCase) Register(ctx context.Context, actor authz.Actor, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleEmployee
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: role debe ser manager o employee", domain.ErrInvalidInput)
	}
	if role == entity.RoleManager || !uc.opts.RegisterOpen {
		if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbCreate, Resource: authz.ResourceUser}, nil); err != nil {
			return nil, err
		}
	}

	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	user := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) dummy() string {
	uc.dummyOnce.Do(func() {
		uc.dummyDigest, _ = uc.hasher.Hash("taller-dummy-password")
	})
	return uc.dummyDigest
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
