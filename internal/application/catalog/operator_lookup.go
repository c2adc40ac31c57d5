package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

// OperatorLookup resuelve operadores para la validación de permisos.
type OperatorLookup struct {
	operatorRepo repository.OperatorRepository
}

// NewOperatorLookup construye el servicio.
func NewOperatorLookup(operatorRepo repository.OperatorRepository) *OperatorLookup {
	return &OperatorLookup{operatorRepo: operatorRepo}
}

// GetOperator devuelve el operador o domain.ErrNotFound.
func (l *OperatorLookup) GetOperator(ctx context.Context, id string) (*entity.Operator, error) {
	op, err := l.operatorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operador %s", domain.ErrNotFound, id)
	}
	return op, nil
}
