package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/application/production"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// ProductionHandler órdenes de producción (protegido).
type ProductionHandler struct {
	uc  *production.UseCase
	log *logger.Logger
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase, log *logger.Logger) *ProductionHandler {
	return &ProductionHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear orden de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionOrderRequest  true  "Local y productos a fabricar"
// @Success      201   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/production/orders [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	var scheduled time.Time
	if in.ScheduledAt != nil {
		scheduled = *in.ScheduledAt
	}
	lines := make([]production.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, production.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, Unit: l.Unit})
	}
	order, err := h.uc.Create(c.UserContext(), production.CreateInput{
		LocationID:  in.LocationID,
		ScheduledAt: scheduled,
		Notes:       in.Notes,
		Actor:       GetUserID(c),
		Lines:       lines,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromProductionOrder(order))
}

// GetByID godoc
// @Summary      Obtener orden de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromProductionOrder(order))
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "ID del local"
// @Param        status       query  string  false  "PLANNED | FINALIZED | CANCELLED"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductionOrderListResponse
// @Router       /api/production/orders [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	orders, err := h.uc.List(c.UserContext(), repository.ProductionFilter{
		LocationID: c.Query("location_id"),
		Status:     entity.ProductionStatus(c.Query("status")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.ProductionOrderListResponse{Items: make([]dto.ProductionOrderResponse, 0, len(orders)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, o := range orders {
		out.Items = append(out.Items, dto.FromProductionOrder(o))
	}
	return c.JSON(out)
}

// Requirements godoc
// @Summary      Vista previa de insumos
// @Description  Consumos agregados con cantidades planificadas contra el stock del local. No reserva nada.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.RequirementsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/requirements [get]
func (h *ProductionHandler) Requirements(c *fiber.Ctx) error {
	reqs, err := h.uc.PreviewRequirements(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.RequirementsResponse{
		OrderID:    reqs.OrderID,
		LocationID: reqs.LocationID,
		Sufficient: reqs.Sufficient,
		Items:      make([]dto.RequirementDTO, 0, len(reqs.Items)),
	}
	for _, r := range reqs.Items {
		out.Items = append(out.Items, dto.RequirementDTO{
			ItemID:     r.ItemID,
			ItemName:   r.ItemName,
			Unit:       r.Unit,
			Required:   r.Required,
			Available:  r.Available,
			Sufficient: r.Sufficient,
		})
	}
	return c.JSON(out)
}

// PickList godoc
// @Summary      Hoja de requisición en PDF
// @Tags         production
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/pick-list.pdf [get]
func (h *ProductionHandler) PickList(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.PickListPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="requisicion-`+id+`.pdf"`)
	return c.Send(pdf)
}

// Finalize godoc
// @Summary      Finalizar orden de producción
// @Description  Descuenta insumos agregados e ingresa producto terminado; si falta algún insumo no aplica nada.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.FinalizeProductionRequest  false  "Cantidades reales y notas de cierre"
// @Success      200   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/finalize [post]
func (h *ProductionHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeProductionRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &in); err != nil {
			return writeError(c, h.log, err)
		}
	}
	input := production.FinalizeInput{OrderID: c.Params("id"), ClosingNotes: in.ClosingNotes, Actor: GetUserID(c)}
	for _, o := range in.LineOverrides {
		input.LineOverrides = append(input.LineOverrides, production.LineOverride{LineID: o.LineID, Quantity: o.Quantity})
	}
	for _, o := range in.IngredientOverrides {
		input.IngredientOverrides = append(input.IngredientOverrides, production.IngredientOverride{ItemID: o.ItemID, Quantity: o.Quantity})
	}
	order, err := h.uc.Finalize(c.UserContext(), input)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromProductionOrder(order))
}

// Cancel godoc
// @Summary      Cancelar orden de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.CancelProductionRequest  false  "Motivo"
// @Success      200   {object}  dto.ProductionOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/cancel [post]
func (h *ProductionHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelProductionRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &in); err != nil {
			return writeError(c, h.log, err)
		}
	}
	order, err := h.uc.Cancel(c.UserContext(), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromProductionOrder(order))
}
