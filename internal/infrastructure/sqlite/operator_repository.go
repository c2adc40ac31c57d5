package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

const operatorColumns = `id, login, name, password_hash, role, active, created_at, updated_at`

type operatorRow struct {
	ID           string `db:"id"`
	Login        string `db:"login"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	Active       bool   `db:"active"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

// OperatorRepo implementación de OperatorRepository sobre SQLite.
type OperatorRepo struct {
	q sqlx.ExtContext
}

// NewOperatorRepository construye el adaptador.
func NewOperatorRepository(q sqlx.ExtContext) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// Create persiste un operador.
func (r *OperatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO operators (`+operatorColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID, op.Login, op.Name, op.PasswordHash, string(op.Role), op.Active,
		formatTime(op.CreatedAt), formatTime(op.UpdatedAt))
	if err != nil {
		return mapWriteError("insert operator", err)
	}
	return nil
}

// GetByID obtiene un operador por ID.
func (r *OperatorRepo) GetByID(ctx context.Context, id string) (*entity.Operator, error) {
	return r.get(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = ?`, id)
}

// GetByLogin obtiene un operador por login.
func (r *OperatorRepo) GetByLogin(ctx context.Context, login string) (*entity.Operator, error) {
	return r.get(ctx, `SELECT `+operatorColumns+` FROM operators WHERE login = ?`, login)
}

func (r *OperatorRepo) get(ctx context.Context, query, arg string) (*entity.Operator, error) {
	var row operatorRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator: %w", err)
	}
	return &entity.Operator{
		ID:           row.ID,
		Login:        row.Login,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		Role:         entity.Role(row.Role),
		Active:       row.Active,
		CreatedAt:    parseTime(row.CreatedAt),
		UpdatedAt:    parseTime(row.UpdatedAt),
	}, nil
}
