package usecase

import (
	"context"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain/authz"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// UserUseCase consultas sobre el directorio de usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// ListEmployees devuelve los employees asignables a un trabajo (solo manager).
func (uc *UserUseCase) ListEmployees(ctx context.Context, actor authz.Actor) ([]dto.EmployeeResponse, error) {
	if _, err := authz.Authorize(actor, authz.Action{Verb: authz.VerbList, Resource: authz.ResourceEmployee}, nil); err != nil {
		return nil, err
	}
	users, err := uc.repo.ListByRole(ctx, entity.RoleEmployee)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.EmployeeResponse{ID: u.ID, Name: u.Name})
	}
	return out, nil
}
