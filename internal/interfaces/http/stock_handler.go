package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// StockHandler consultas de stock, transferencias y ajustes (protegido).
type StockHandler struct {
	query    *inventory.QueryUseCase
	transfer *inventory.TransferUseCase
	adjust   *inventory.AdjustUseCase
	log      *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(query *inventory.QueryUseCase, transfer *inventory.TransferUseCase, adjust *inventory.AdjustUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{query: query, transfer: transfer, adjust: adjust, log: log}
}

// GetQuantity godoc
// @Summary      Cantidad de un ítem en un local
// @Description  Devuelve 0 si el ítem nunca tuvo stock en el local.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        itemId      path  string  true  "ID del ítem"
// @Param        locationId  path  string  true  "ID del local"
// @Success      200  {object}  dto.StockQuantityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{itemId}/{locationId} [get]
func (h *StockHandler) GetQuantity(c *fiber.Ctx) error {
	itemID, locationID := c.Params("itemId"), c.Params("locationId")
	qty, err := h.query.GetQuantity(c.UserContext(), itemID, locationID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.StockQuantityResponse{ItemID: itemID, LocationID: locationID, Quantity: qty})
}

// ListByLocation godoc
// @Summary      Stock de un local
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        locationId  path  string  true  "ID del local"
// @Success      200  {array}   dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{locationId} [get]
func (h *StockHandler) ListByLocation(c *fiber.Ctx) error {
	entries, err := h.query.ListByLocation(c.UserContext(), c.Params("locationId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StockEntryResponse{ItemID: e.ItemID, Quantity: e.Quantity, UpdatedAt: e.UpdatedAt})
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Más recientes primero. location_id filtra por origen o destino.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  false  "ID del ítem"
// @Param        location_id   query  string  false  "ID del local"
// @Param        kind          query  string  false  "TRANSFER | ADJUSTMENT | SALE_ORDER | PRODUCTION | PURCHASE"
// @Param        reference_id  query  string  false  "Documento de origen"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	if page.Limit > 500 {
		page.Limit = 500
	}
	filter := repository.MovementFilter{
		ItemID:      c.Query("item_id"),
		LocationID:  c.Query("location_id"),
		Kind:        entity.MovementKind(c.Query("kind")),
		ReferenceID: c.Query("reference_id"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	var err error
	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		return writeError(c, h.log, err)
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		return writeError(c, h.log, err)
	}
	movs, err := h.query.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.MovementListResponse{Items: make([]dto.MovementResponse, 0, len(movs)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, m := range movs {
		out.Items = append(out.Items, dto.FromMovement(m))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliación de una entrada de stock
// @Description  Compara la cantidad de la entrada con entradas menos salidas del historial.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        itemId      path  string  true  "ID del ítem"
// @Param        locationId  path  string  true  "ID del local"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{itemId}/{locationId}/reconciliation [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	rec, err := h.query.Reconcile(c.UserContext(), c.Params("itemId"), c.Params("locationId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		ItemID:        rec.ItemID,
		LocationID:    rec.LocationID,
		EntryQuantity: rec.EntryQuantity,
		LedgerNet:     rec.LedgerNet,
		Balanced:      rec.Balanced,
	})
}

// Transfer godoc
// @Summary      Transferir stock entre locales
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.TransferRequest  true  "Ítem, locales de origen y destino, cantidad"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.transfer.Transfer(c.UserContext(), inventory.TransferInput{
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
		Actor:          GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		MovementID:  res.MovementID,
		ItemID:      res.ItemID,
		Quantity:    res.Quantity,
		Source:      dto.LocationBalanceDTO{LocationID: res.Source.LocationID, Before: res.Source.Before, After: res.Source.After},
		Destination: dto.LocationBalanceDTO{LocationID: res.Destination.LocationID, Before: res.Destination.Before, After: res.Destination.After},
	})
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  delta suma o resta; quantity fija la cantidad absoluta. Se indica uno de los dos.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.AdjustmentRequest  true  "Ítem, local, delta o quantity"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if (in.Delta == nil) == (in.Quantity == nil) {
		return writeError(c, h.log, &requestError{code: "VALIDATION", message: "indique delta o quantity, no ambos"})
	}
	var (
		res *inventory.AdjustResult
		err error
	)
	if in.Delta != nil {
		res, err = h.adjust.Adjust(c.UserContext(), inventory.AdjustInput{
			ItemID: in.ItemID, LocationID: in.LocationID, Delta: *in.Delta, Notes: in.Notes, Actor: GetUserID(c),
		})
	} else {
		res, err = h.adjust.SetQuantity(c.UserContext(), inventory.SetQuantityInput{
			ItemID: in.ItemID, LocationID: in.LocationID, Quantity: *in.Quantity, Notes: in.Notes, Actor: GetUserID(c),
		})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{MovementID: res.MovementID, Before: res.Before, After: res.After})
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}
