package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sistema-comercial/internal/application/dto"
	"github.com/jhoicas/sistema-comercial/internal/application/finance"
)

// LedgerHandler expone las cuentas por cobrar y por pagar.
type LedgerHandler struct {
	uc *finance.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *finance.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// List godoc
// @Summary      Listar cuentas
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        direction       query  string  false  "receivable | payable"
// @Param        status          query  string  false  "open | paid | cancelled"
// @Param        counterpart_id  query  string  false  "contraparte"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Router       /api/ledger [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	var in dto.LedgerListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.uc.ListEntries(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Settle godoc
// @Summary      Marcar cuenta como pagada
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/{id}/settle [post]
func (h *LedgerHandler) Settle(c *fiber.Ctx) error {
	out, err := h.uc.Settle(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar cuenta abierta
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/{id}/cancel [post]
func (h *LedgerHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
