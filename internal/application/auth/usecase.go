package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

var validRoles = map[entity.Role]bool{
	entity.RoleAdmin:      true,
	entity.RoleFinance:    true,
	entity.RoleSales:      true,
	entity.RolePurchasing: true,
	entity.RoleStock:      true,
	entity.RoleTechnician: true,
}

// AuthUseCase casos de uso de autenticación de operadores.
type AuthUseCase struct {
	operatorRepo repository.OperatorRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(operatorRepo repository.OperatorRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{operatorRepo: operatorRepo, jwtCfg: jwtCfg}
}

// CreateOperator hashea la contraseña con bcrypt y persiste. ErrDuplicate si el login ya existe.
func (uc *AuthUseCase) CreateOperator(ctx context.Context, in dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	login := strings.ToUpper(strings.TrimSpace(in.Login))
	role := entity.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	if login == "" || len(in.Password) < 6 || !validRoles[role] {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.operatorRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: login %s", domain.ErrDuplicate, login)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = login
	}
	op := &entity.Operator{
		ID:           uuid.New().String(),
		Login:        login,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.operatorRepo.Create(ctx, op); err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// Login verifica login/password y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := uc.operatorRepo.GetByLogin(ctx, strings.ToUpper(strings.TrimSpace(in.Login)))
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !op.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, op.ID, string(op.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Operator: *toOperatorResponse(op)}, nil
}

func toOperatorResponse(op *entity.Operator) *dto.OperatorResponse {
	return &dto.OperatorResponse{
		ID:        op.ID,
		Login:     op.Login,
		Name:      op.Name,
		Role:      string(op.Role),
		Active:    op.Active,
		CreatedAt: op.CreatedAt,
	}
}
