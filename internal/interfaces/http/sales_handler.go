package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/application/sales"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// SalesHandler pedidos de venta (protegido).
type SalesHandler struct {
	uc  *sales.UseCase
	log *logger.Logger
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.UseCase, log *logger.Logger) *SalesHandler {
	return &SalesHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear pedido de venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "Cliente, local de origen y líneas con precio"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	lines := make([]sales.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	order, err := h.uc.Create(c.UserContext(), sales.CreateInput{
		CustomerID:       in.CustomerID,
		OriginLocationID: in.OriginLocationID,
		Notes:            in.Notes,
		Actor:            GetUserID(c),
		Lines:            lines,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSalesOrder(order))
}

// GetByID godoc
// @Summary      Obtener pedido de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// Confirm godoc
// @Summary      Confirmar pedido y descontar stock
// @Description  Descuenta todas las líneas del local de despacho o ninguna; los faltantes van en details.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.FulfillmentRequest  true  "Local de despacho"
// @Success      200   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/confirm [post]
func (h *SalesHandler) Confirm(c *fiber.Ctx) error {
	var in dto.FulfillmentRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	order, err := h.uc.Confirm(c.UserContext(), c.Params("id"), in.FulfillmentLocationID, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// SetFulfillmentLocation godoc
// @Summary      Asignar local de despacho
// @Description  En un pedido confirmado sin descuento aplica el descuento en ese local.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.FulfillmentRequest  true  "Local de despacho"
// @Success      200   {object}  dto.SalesOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/fulfillment-location [put]
func (h *SalesHandler) SetFulfillmentLocation(c *fiber.Ctx) error {
	var in dto.FulfillmentRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	order, err := h.uc.SetFulfillmentLocation(c.UserContext(), c.Params("id"), in.FulfillmentLocationID, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// Advance godoc
// @Summary      Avanzar estado del pedido
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.AdvanceSalesOrderRequest  true  "IN_PREPARATION o DELIVERED"
// @Success      200   {object}  dto.SalesOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/status [put]
func (h *SalesHandler) Advance(c *fiber.Ctx) error {
	var in dto.AdvanceSalesOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	order, err := h.uc.Advance(c.UserContext(), c.Params("id"), entity.SalesStatus(in.Status))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Si el stock estaba descontado lo devuelve al local de despacho.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/cancel [post]
func (h *SalesHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}
