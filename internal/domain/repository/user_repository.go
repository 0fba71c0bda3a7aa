package repository

import (
	"context"

	"github.com/jhoicas/colibri-pos/internal/domain/entity"
)

// UserRepository puerto de lectura de usuarios (el alta de usuarios es externa).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
