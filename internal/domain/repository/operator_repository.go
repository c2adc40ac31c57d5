package repository

import (
	"context"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// OperatorRepository define el puerto de persistencia para Operator.
type OperatorRepository interface {
	Create(ctx context.Context, op *entity.Operator) error
	GetByID(ctx context.Context, id string) (*entity.Operator, error)
	GetByLogin(ctx context.Context, login string) (*entity.Operator, error)
}
