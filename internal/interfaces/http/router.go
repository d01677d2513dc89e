package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ServiCampo-api/internal/application/auth"
	"github.com/jhoicas/ServiCampo-api/internal/application/orders"
	"github.com/jhoicas/ServiCampo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC   *orders.UseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	orderHandler := NewOrderHandler(deps.OrderUC)
	fieldHandler := NewFieldHandler(deps.OrderUC)

	// Órdenes de servicio (protegido)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Patch("/:id/status", orderHandler.UpdateStatus)
	ordersGroup.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleOficina), orderHandler.Delete)

	// Ejecución en campo (protegido)
	ordersGroup.Post("/:id/time-entries", fieldHandler.AddTimeEntry)
	ordersGroup.Post("/:id/materials", fieldHandler.AddMaterialUsage)
	ordersGroup.Post("/:id/photos", fieldHandler.AddPhoto)
	ordersGroup.Put("/:id/signature", fieldHandler.SetSignature)
	ordersGroup.Delete("/:id/signature", fieldHandler.ClearSignature)
	ordersGroup.Post("/:id/check-in", orderHandler.CheckIn)

	// Hijas por id propio (update/delete resuelven la orden dueña)
	timeEntries := protected.Group("/time-entries")
	timeEntries.Put("/:id", fieldHandler.UpdateTimeEntry)
	timeEntries.Delete("/:id", fieldHandler.DeleteTimeEntry)

	materials := protected.Group("/materials")
	materials.Put("/:id", fieldHandler.UpdateMaterialUsage)
	materials.Delete("/:id", fieldHandler.DeleteMaterialUsage)

	photos := protected.Group("/photos")
	photos.Delete("/:id", fieldHandler.DeletePhoto)
}
