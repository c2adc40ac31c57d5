package commercial

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
	"github.com/jhoicas/sistema-comercial/internal/domain/order"
	"github.com/jhoicas/sistema-comercial/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// OrderUseCase adapta las peticiones HTTP al borrador, la validación y la confirmación.
type OrderUseCase struct {
	validator *Validator
	finalizer *Finalizer
	orderRepo repository.OrderRepository
	parties   PartyReader
	receipts  ReceiptGenerator
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	validator *Validator,
	finalizer *Finalizer,
	orderRepo repository.OrderRepository,
	parties PartyReader,
	receipts ReceiptGenerator,
) *OrderUseCase {
	return &OrderUseCase{
		validator: validator,
		finalizer: finalizer,
		orderRepo: orderRepo,
		parties:   parties,
		receipts:  receipts,
	}
}

// ParseKind interpreta "sale"/"purchase" (también "venta"/"compra").
func ParseKind(s string) (entity.OrderKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale", "venta":
		return entity.OrderSale, nil
	case "purchase", "compra":
		return entity.OrderPurchase, nil
	}
	return "", fmt.Errorf("%w: tipo de pedido %q", domain.ErrInvalidInput, s)
}

// BuildDraft arma el borrador desde la petición.
func BuildDraft(operatorID string, in dto.CreateOrderRequest) (*order.Draft, error) {
	emission := time.Time{}
	if in.EmissionDate != "" {
		t, err := time.Parse(dateLayout, in.EmissionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha de emisión %q", domain.ErrInvalidInput, in.EmissionDate)
		}
		emission = t
	}
	counterpart := in.CounterpartID
	if counterpart != nil && strings.TrimSpace(*counterpart) == "" {
		counterpart = nil
	}
	d := order.NewDraft(counterpart, emission)
	if operatorID != "" {
		d.OperatorID = &operatorID
	}
	d.PaymentMethod = in.PaymentMethod
	d.Reference = in.Reference
	for i, item := range in.Items {
		line := order.Line{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
		if item.ExpiryDate != "" {
			t, err := time.Parse(dateLayout, item.ExpiryDate)
			if err != nil {
				return nil, fmt.Errorf("%w: vencimiento de la línea %d", domain.ErrInvalidLine, i+1)
			}
			line.ExpiryDate = &t
		}
		if err := d.AddLine(line); err != nil {
			return nil, err
		}
	}
	if err := d.SetDiscount(in.DiscountPct, in.DiscountValue); err != nil {
		return nil, err
	}
	return d, nil
}

// Preview valida sin persistir.
func (uc *OrderUseCase) Preview(ctx context.Context, operatorID string, kind entity.OrderKind, in dto.CreateOrderRequest) (*dto.ValidationResponse, error) {
	d, err := BuildDraft(operatorID, in)
	if err != nil {
		return nil, err
	}
	res := uc.validator.Validate(ctx, d, kind)
	totals := d.Totals()
	return &dto.ValidationResponse{
		Valid:    res.Valid(),
		Reasons:  toMessages(res.Reasons),
		Warnings: toMessages(res.Warnings),
		Subtotal: totals.Subtotal,
		Discount: totals.Discount,
		Total:    totals.Total,
	}, nil
}

// Create valida y confirma el pedido.
func (uc *OrderUseCase) Create(ctx context.Context, operatorID string, kind entity.OrderKind, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	d, err := BuildDraft(operatorID, in)
	if err != nil {
		return nil, err
	}
	o, res, err := uc.finalizer.FinalizeWithResult(ctx, d, kind)
	if err != nil {
		return nil, err
	}
	out := ToOrderResponse(o)
	out.Warnings = toMessages(res.Warnings)
	return out, nil
}

// Get devuelve el pedido con sus ítems.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return ToOrderResponse(o), nil
}

// List devuelve una página del historial y los totales de todo el filtro.
func (uc *OrderUseCase) List(ctx context.Context, in dto.OrderListRequest) (*dto.OrderListResponse, error) {
	f, err := orderFilter(in)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	f.Limit, f.Offset = in.Limit, in.Offset

	orders, err := uc.orderRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	summary, err := uc.orderRepo.Summarize(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
		Summary: dto.OrderSummaryResponse{
			Count:    summary.Count,
			Subtotal: summary.Subtotal,
			Discount: summary.Discount,
			Total:    summary.Total,
		},
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: summary.Count},
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, *ToOrderResponse(o))
	}
	return out, nil
}

func orderFilter(in dto.OrderListRequest) (repository.OrderFilter, error) {
	f := repository.OrderFilter{
		Status:        strings.ToLower(strings.TrimSpace(in.Status)),
		CounterpartID: strings.TrimSpace(in.CounterpartID),
	}
	if strings.TrimSpace(in.Kind) != "" {
		kind, err := ParseKind(in.Kind)
		if err != nil {
			return f, err
		}
		f.Kind = string(kind)
	}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{in.From, &f.From}, {in.To, &f.To}} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, d.raw)
		if err != nil {
			return f, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, d.raw)
		}
		*d.dst = &t
	}
	for _, v := range []struct {
		raw string
		dst **decimal.Decimal
	}{{in.MinTotal, &f.MinTotal}, {in.MaxTotal, &f.MaxTotal}} {
		if v.raw == "" {
			continue
		}
		amount, err := decimal.NewFromString(v.raw)
		if err != nil {
			return f, fmt.Errorf("%w: importe %q", domain.ErrInvalidInput, v.raw)
		}
		*v.dst = &amount
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	if f.MinTotal != nil && f.MaxTotal != nil && f.MinTotal.GreaterThan(*f.MaxTotal) {
		return f, fmt.Errorf("%w: el valor mínimo supera al máximo", domain.ErrInvalidInput)
	}
	return f, nil
}

// Receipt genera el PDF del pedido.
func (uc *OrderUseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	var party *entity.Party
	if o.CounterpartID != nil {
		party, err = uc.parties.GetParty(ctx, *o.CounterpartID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return uc.receipts.GenerateOrderReceipt(o, party)
}

// ToOrderResponse mapea la entidad al DTO.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			ExpiryDate:  it.ExpiryDate,
		})
	}
	return &dto.OrderResponse{
		ID:            o.ID,
		Kind:          string(o.Kind),
		CounterpartID: o.CounterpartID,
		OperatorID:    o.OperatorID,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		Total:         o.Total,
		EmissionDate:  o.EmissionDate,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		Reference:     o.Reference,
		Items:         items,
	}
}

// ToMessages convierte motivos al DTO.
func ToMessages(rs []Reason) []dto.ValidationMessage { return toMessages(rs) }

func toMessages(rs []Reason) []dto.ValidationMessage {
	out := make([]dto.ValidationMessage, 0, len(rs))
	for _, r := range rs {
		out = append(out, dto.ValidationMessage{Check: string(r.Check), Message: r.Message})
	}
	return out
}
