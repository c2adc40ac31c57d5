package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

const operatorColumns = `id, login, name, password_hash, role, active, created_at, updated_at`

// OperatorRepo implementación de OperatorRepository sobre PostgreSQL.
type OperatorRepo struct {
	q Querier
}

// NewOperatorRepository construye el adaptador.
func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// Create persiste un operador.
func (r *OperatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	_, err := r.q.Exec(ctx, `INSERT INTO operators (`+operatorColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		op.ID, op.Login, op.Name, op.PasswordHash, string(op.Role), op.Active, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		return mapWriteError("insert operator", err)
	}
	return nil
}

// GetByID obtiene un operador por ID.
func (r *OperatorRepo) GetByID(ctx context.Context, id string) (*entity.Operator, error) {
	return r.get(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = $1`, id)
}

// GetByLogin obtiene un operador por login.
func (r *OperatorRepo) GetByLogin(ctx context.Context, login string) (*entity.Operator, error) {
	return r.get(ctx, `SELECT `+operatorColumns+` FROM operators WHERE login = $1`, login)
}

func (r *OperatorRepo) get(ctx context.Context, query, arg string) (*entity.Operator, error) {
	var (
		op   entity.Operator
		role string
	)
	err := r.q.QueryRow(ctx, query, arg).Scan(&op.ID, &op.Login, &op.Name, &op.PasswordHash, &role,
		&op.Active, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator: %w", err)
	}
	op.Role = entity.Role(role)
	return &op, nil
}
