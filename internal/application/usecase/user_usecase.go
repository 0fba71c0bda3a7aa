package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/domain"
	"github.com/jhoicas/colibri-pos/internal/domain/entity"
	"github.com/jhoicas/colibri-pos/internal/domain/repository"
)

// UserUseCase lectura del usuario autenticado.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Me devuelve el perfil del actor. Si el usuario no está en la base se responde con los datos del token.
func (uc *UserUseCase) Me(ctx context.Context, actor entity.Actor) (*dto.MeResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		user = &entity.User{ID: actor.UserID, Username: actor.Username, Role: actor.Role}
	}
	resp := dto.MeFromUser(user)
	return &resp, nil
}
