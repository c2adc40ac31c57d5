package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/inventory"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
	"github.com/jhoicas/sistema-comercial/pkg/logger"
)

// RegisterMovementUseCase registra entradas y salidas manuales de inventario
// (ajustes de conteo, mermas, devoluciones) fuera de un pedido.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
	ledger       *StockLedger
	costPolicy   inventory.CostPolicy
	log          *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	movementRepo repository.StockMovementRepository,
	ledger *StockLedger,
	costPolicy inventory.CostPolicy,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		ledger:       ledger,
		costPolicy:   costPolicy,
		log:          log.Component("inventory"),
	}
}

// RegisterMovement aplica el movimiento en una transacción. En entradas con costo
// unitario se actualiza el costo del producto según la política configurada.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, operatorID string, in dto.RegisterMovementRequest) (*dto.StockMovementResponse, error) {
	direction := strings.ToLower(strings.TrimSpace(in.Direction))
	if in.ProductID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var opID *string
	if operatorID != "" {
		opID = &operatorID
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		product, err := uow.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		mov, err = uc.ledger.Record(ctx, uow, RecordInput{
			ProductID:     product.ID,
			Direction:     direction,
			Quantity:      in.Quantity,
			Note:          in.Note,
			OperatorID:    opID,
			PurchasePrice: in.UnitCost,
			At:            time.Now(),
		})
		if err != nil {
			return err
		}
		if direction == entity.MovementIn && in.UnitCost != nil {
			cost := uc.costPolicy.NextCost(product.Stock, product.Cost, in.Quantity, *in.UnitCost)
			return uow.Products.UpdateCost(ctx, product.ID, cost)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", mov.ProductID).
		Str("direction", mov.Direction).
		Str("quantity", mov.Quantity.String()).
		Msg("movimiento manual registrado")
	return ToMovementResponse(mov), nil
}

// ListByProduct devuelve el kardex del producto, más recientes primero.
func (uc *RegisterMovementUseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	movs, err := uc.movementRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, *ToMovementResponse(m))
	}
	return out, nil
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Direction:     m.Direction,
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		SalePrice:     m.SalePrice,
		PurchasePrice: m.PurchasePrice,
		CounterpartID: m.CounterpartID,
		OrderID:       m.OrderID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}
