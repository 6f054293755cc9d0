package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/application/purchasing"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// PurchaseHandler compras a proveedores (protegido).
type PurchaseHandler struct {
	uc  *purchasing.UseCase
	log *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.UseCase, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor, local y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	lines := make([]purchasing.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, purchasing.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	order, err := h.uc.Create(c.UserContext(), purchasing.CreateInput{
		SupplierName:   in.SupplierName,
		LocationID:     in.LocationID,
		DocumentNumber: in.DocumentNumber,
		Actor:          GetUserID(c),
		Lines:          lines,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchaseOrder(order))
}

// GetByID godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromPurchaseOrder(order))
}

// Receive godoc
// @Summary      Recibir compra
// @Description  Ingresa el stock al local y actualiza el costo de compra de cada ítem.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	order, err := h.uc.Receive(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromPurchaseOrder(order))
}
