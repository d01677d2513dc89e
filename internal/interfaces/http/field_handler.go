package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ServiCampo-api/internal/application/dto"
	"github.com/jhoicas/ServiCampo-api/internal/application/orders"
)

// FieldHandler maneja los mutadores de ejecución en campo: registros de tiempo,
// materiales, fotos y firma. Toda operación responde el agregado re-hidratado.
type FieldHandler struct {
	uc *orders.UseCase
}

// NewFieldHandler construye el handler.
func NewFieldHandler(uc *orders.UseCase) *FieldHandler {
	return &FieldHandler{uc: uc}
}

// respondAggregate responde el agregado o 404 cuando el recurso no existía.
func respondAggregate(c *fiber.Ctx, order *dto.OrderResponse, err error) error {
	if err != nil {
		return orderError(c, err)
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	return c.JSON(order)
}

// AddTimeEntry agrega un registro de tiempo a la orden.
// POST /api/orders/:id/time-entries
func (h *FieldHandler) AddTimeEntry(c *fiber.Ctx) error {
	var in dto.TimeEntryPayload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.AddTimeEntry(c.Params("id"), in)
	return respondAggregate(c, order, err)
}

// UpdateTimeEntry actualiza parcialmente un registro de tiempo.
// PUT /api/time-entries/:id
func (h *FieldHandler) UpdateTimeEntry(c *fiber.Ctx) error {
	var in dto.UpdateTimeEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateTimeEntry(c.Params("id"), in)
	return respondAggregate(c, order, err)
}

// DeleteTimeEntry elimina un registro de tiempo.
// DELETE /api/time-entries/:id
func (h *FieldHandler) DeleteTimeEntry(c *fiber.Ctx) error {
	order, err := h.uc.DeleteTimeEntry(c.Params("id"))
	return respondAggregate(c, order, err)
}

// AddMaterialUsage agrega una línea de consumo de material.
// POST /api/orders/:id/materials
func (h *FieldHandler) AddMaterialUsage(c *fiber.Ctx) error {
	var in dto.MaterialUsagePayload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.AddMaterialUsage(c.Params("id"), in)
	return respondAggregate(c, order, err)
}

// UpdateMaterialUsage actualiza parcialmente una línea de material.
// PUT /api/materials/:id
func (h *FieldHandler) UpdateMaterialUsage(c *fiber.Ctx) error {
	var in dto.UpdateMaterialUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateMaterialUsage(c.Params("id"), in)
	return respondAggregate(c, order, err)
}

// DeleteMaterialUsage elimina una línea de material.
// DELETE /api/materials/:id
func (h *FieldHandler) DeleteMaterialUsage(c *fiber.Ctx) error {
	order, err := h.uc.DeleteMaterialUsage(c.Params("id"))
	return respondAggregate(c, order, err)
}

// AddPhoto adjunta una foto a la orden.
// POST /api/orders/:id/photos
func (h *FieldHandler) AddPhoto(c *fiber.Ctx) error {
	var in dto.PhotoPayload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.AddPhoto(c.Params("id"), in)
	return respondAggregate(c, order, err)
}

// DeletePhoto elimina una foto.
// DELETE /api/photos/:id
func (h *FieldHandler) DeletePhoto(c *fiber.Ctx) error {
	order, err := h.uc.DeletePhoto(c.Params("id"))
	return respondAggregate(c, order, err)
}

// SetSignature establece o reemplaza la firma del cliente (upsert).
// PUT /api/orders/:id/signature
func (h *FieldHandler) SetSignature(c *fiber.Ctx) error {
	var in dto.SignaturePayload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.SetSignature(c.Params("id"), in)
	return respondAggregate(c, order, err)
}

// ClearSignature borra la firma de la orden. Idempotente.
// DELETE /api/orders/:id/signature
func (h *FieldHandler) ClearSignature(c *fiber.Ctx) error {
	order, err := h.uc.ClearSignature(c.Params("id"))
	return respondAggregate(c, order, err)
}
