package commercial

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error
}

// ProductReader resuelve productos; domain.ErrNotFound si no existe.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
}

// PartyReader resuelve contrapartes; domain.ErrNotFound si no existe.
type PartyReader interface {
	GetParty(ctx context.Context, id string) (*entity.Party, error)
}

// OperatorReader resuelve operadores; domain.ErrNotFound si no existe.
type OperatorReader interface {
	GetOperator(ctx context.Context, id string) (*entity.Operator, error)
}

// ReceivablesReader suma las cuentas por cobrar abiertas de un cliente.
type ReceivablesReader interface {
	OpenReceivables(ctx context.Context, partyID string) (decimal.Decimal, error)
}

// Lookups agrupa las consultas de solo lectura que usa la validación.
type Lookups struct {
	Products    ProductReader
	Parties     PartyReader
	Operators   OperatorReader
	Receivables ReceivablesReader
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(order *entity.Order, counterpart *entity.Party) ([]byte, error)
}
