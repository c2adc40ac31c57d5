package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sistema-comercial/internal/domain"
)

func TestIsNoRow(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"sin filas", pgx.ErrNoRows, true},
		{"sin filas envuelto", fmt.Errorf("scan: %w", pgx.ErrNoRows), true},
		{"id que no es uuid", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}, true},
		{"id que no es uuid envuelto", fmt.Errorf("scan: %w", &pgconn.PgError{Code: "22P02"}), true},
		{"violación de unicidad", &pgconn.PgError{Code: "23505"}, false},
		{"error de conexión", errors.New("connection reset"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isNoRow(tc.err))
		})
	}
}

func TestMapWriteError(t *testing.T) {
	assert.ErrorIs(t, mapWriteError("insert", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	assert.ErrorIs(t, mapWriteError("insert", &pgconn.PgError{Code: "23503"}), domain.ErrNotFound)
	assert.ErrorIs(t, mapWriteError("update", &pgconn.PgError{Code: "22P02"}), domain.ErrNotFound)

	other := &pgconn.PgError{Code: "57014"}
	err := mapWriteError("insert", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
