package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-comercial/internal/application/auth"
	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/infrastructure/sqlite"
	pkgjwt "github.com/jhoicas/sistema-comercial/pkg/jwt"
)

const secret = "secret-de-pruebas"

func newUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return auth.NewAuthUseCase(sqlite.NewOperatorRepository(db), auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"})
}

func TestCreateOperatorYLogin(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	op, err := uc.CreateOperator(ctx, dto.CreateOperatorRequest{Login: " ana ", Password: "segura123", Role: "ventas"})
	require.NoError(t, err)
	assert.Equal(t, "ANA", op.Login)
	assert.Equal(t, "VENTAS", op.Role)
	assert.True(t, op.Active)

	out, err := uc.Login(ctx, dto.LoginRequest{Login: "Ana", Password: "segura123"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.OperatorID)
	assert.Equal(t, "VENTAS", claims.Role)
}

func TestCreateOperator_Validaciones(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.CreateOperator(ctx, dto.CreateOperatorRequest{Login: "X", Password: "123", Role: "VENTAS"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "password corto")

	_, err = uc.CreateOperator(ctx, dto.CreateOperatorRequest{Login: "X", Password: "123456", Role: "GERENTE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "perfil desconocido")

	_, err = uc.CreateOperator(ctx, dto.CreateOperatorRequest{Login: "X", Password: "123456", Role: "COMPRAS"})
	require.NoError(t, err)
	_, err = uc.CreateOperator(ctx, dto.CreateOperatorRequest{Login: "x", Password: "123456", Role: "COMPRAS"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.CreateOperator(ctx, dto.CreateOperatorRequest{Login: "BETO", Password: "clave123", Role: "FINANCIERO"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Login: "BETO", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Login: "NADIE", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
