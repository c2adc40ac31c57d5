package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sistema-comercial/internal/application/commercial"
	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

// OrderHandler maneja validación, confirmación y consulta de pedidos.
type OrderHandler struct {
	uc *commercial.OrderUseCase
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(uc *commercial.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Validate godoc
// @Summary      Validar un borrador sin confirmarlo
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "kind (sale|purchase), items, descuentos"
// @Success      200   {object}  dto.ValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/validate [post]
func (h *OrderHandler) Validate(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	kind, err := commercial.ParseKind(in.Kind)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Preview(c.UserContext(), GetOperatorID(c), kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSale godoc
// @Summary      Confirmar una venta
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "cliente, items, descuentos, forma de pago"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.RejectionResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/orders/sales [post]
func (h *OrderHandler) CreateSale(c *fiber.Ctx) error {
	return h.create(c, entity.OrderSale)
}

// CreatePurchase godoc
// @Summary      Confirmar una compra
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "proveedor, items, referencia de la nota fiscal"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.RejectionResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/orders/purchases [post]
func (h *OrderHandler) CreatePurchase(c *fiber.Ctx) error {
	return h.create(c, entity.OrderPurchase)
}

func (h *OrderHandler) create(c *fiber.Ctx, kind entity.OrderKind) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetOperatorID(c), kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de pedidos con totales del filtro
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        kind            query  string  false  "sale | purchase"
// @Param        status          query  string  false  "finalized | cancelled"
// @Param        counterpart_id  query  string  false  "contraparte"
// @Param        from            query  string  false  "emisión desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "emisión hasta (YYYY-MM-DD)"
// @Param        min_total       query  string  false  "total mínimo"
// @Param        max_total       query  string  false  "total máximo"
// @Param        limit           query  int     false  "máximo 100"
// @Param        offset          query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.OrderListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Receipt(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="pedido-`+id+`.pdf"`)
	return c.Send(pdf)
}
