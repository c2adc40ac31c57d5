package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sistema-comercial/internal/application/catalog"
	"github.com/jhoicas/sistema-comercial/internal/application/dto"
)

// CatalogHandler expone la búsqueda y el mantenimiento de productos y contrapartes.
type CatalogHandler struct {
	products  *catalog.CatalogLookup
	parties   *catalog.PartyLookup
	productUC *catalog.ProductUseCase
	partyUC   *catalog.PartyUseCase
}

// NewCatalogHandler construye el handler de catálogo.
func NewCatalogHandler(products *catalog.CatalogLookup, parties *catalog.PartyLookup, productUC *catalog.ProductUseCase, partyUC *catalog.PartyUseCase) *CatalogHandler {
	return &CatalogHandler{products: products, parties: parties, productUC: productUC, partyUC: partyUC}
}

// SearchProducts godoc
// @Summary      Buscar productos activos
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        q          query  string  false  "nombre o código"
// @Param        below_min  query  bool    false  "solo bajo stock mínimo"
// @Success      200  {array}   dto.ProductResponse
// @Router       /api/products [get]
func (h *CatalogHandler) SearchProducts(c *fiber.Ctx) error {
	var in dto.ProductSearchRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.products.Search(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ListParties godoc
// @Summary      Listar contrapartes
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        category  query  string  false  "CUSTOMER, SUPPLIER, ..."
// @Success      200  {array}   dto.PartyResponse
// @Router       /api/parties [get]
func (h *CatalogHandler) ListParties(c *fiber.Ctx) error {
	list, err := h.parties.List(c.UserContext(), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// CreateProduct godoc
// @Summary      Dar de alta un producto
// @Description  Costo y stock inician en cero; cambian con compras y movimientos.
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "código, nombre, precio, stock mínimo"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.productUC.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateProduct godoc
// @Summary      Modificar un producto
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.productUC.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateParty godoc
// @Summary      Dar de alta un cliente o proveedor
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "razón social, documento, categorías"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parties [post]
func (h *CatalogHandler) CreateParty(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.partyUC.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateParty godoc
// @Summary      Modificar o bloquear una contraparte
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la entidad"
// @Param        body  body  dto.UpdatePartyRequest  true  "campos a modificar"
// @Success      200   {object}  dto.PartyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parties/{id} [put]
func (h *CatalogHandler) UpdateParty(c *fiber.Ctx) error {
	var in dto.UpdatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.partyUC.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
