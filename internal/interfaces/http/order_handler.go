package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/orders"
	"github.com/jhoicas/ServiCampo-api/internal/domain"
)

// OrderHandler maneja el CRUD del agregado de órdenes de servicio (protegido).
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// orderError traduce errores del caso de uso a respuestas HTTP.
func orderError(c *fiber.Ctx, err error) error {
	if ge, ok := domain.IsGeofenceDenied(err); ok {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:           "GEOFENCE_DENIED",
			Message:        "fuera del radio permitido para check-in",
			DistanceMeters: &ge.DistanceMeters,
		})
	}
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso referenciado no encontrado"})
	case domain.ErrNoPropertyLocation:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_PROPERTY_LOCATION", Message: "la orden no tiene predio geolocalizado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func orderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
}

// List lista órdenes hidratadas con filtros opcionales.
// GET /api/orders?from=&to=&status=&employeeId=&onlyActive=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.ListOrdersQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	out, err := h.uc.List(q)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene la orden completa (asignaciones, tiempos, materiales, fotos, firma).
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	order, err := h.uc.Get(id)
	if err != nil {
		return orderError(c, err)
	}
	if order == nil {
		return orderNotFound(c)
	}
	return c.JSON(order)
}

// Create crea la orden con hijas anidadas en una sola transacción.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Update reemplaza los escalares del padre; assignments presente reemplaza el
// conjunto completo y signature distingue ausente/null/objeto.
// PUT /api/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return orderError(c, err)
	}
	if order == nil {
		return orderNotFound(c)
	}
	return c.JSON(order)
}

// UpdateStatus cambia el estado de la orden.
// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateStatus(id, in.Status)
	if err != nil {
		return orderError(c, err)
	}
	if order == nil {
		return orderNotFound(c)
	}
	return c.JSON(order)
}

// Delete elimina la orden; las hijas caen en cascada.
// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	found, err := h.uc.Delete(id)
	if err != nil {
		return orderError(c, err)
	}
	if !found {
		return orderNotFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckIn registra la llegada geocercada de un empleado al predio de la orden.
// Si pasa la geocerca abre un registro de tiempo GPS sin hora de fin.
// POST /api/orders/:id/check-in
func (h *OrderHandler) CheckIn(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.CheckInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Técnicos de campo: si el token trae empleado asociado, se usa por defecto.
	if in.EmployeeID == "" {
		in.EmployeeID = GetEmployeeID(c)
	}
	out, err := h.uc.CheckIn(id, in)
	if err != nil {
		return orderError(c, err)
	}
	if out == nil {
		return orderNotFound(c)
	}
	return c.JSON(out)
}
