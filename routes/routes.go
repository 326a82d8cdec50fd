package routes

import (
	"github.com/gofiber/fiber/v2"

	"app/handlers"
	"app/middleware"
	"app/models"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Get("/health", handlers.HandleHealth)

	api := app.Group("/api/v1")

	// --- Report Routes ---
	rep := api.Group("/reports", middleware.Authenticate, middleware.CheckRole(models.RoleOwner, models.RoleAuthority))
	rep.Post("/", handlers.HandleGenerateReport)
	rep.Get("/", handlers.HandleListReports)
	rep.Get("/:reportId", handlers.HandleGetReport)
	rep.Get("/:reportId/download", handlers.HandleDownloadReport)
	rep.Delete("/:reportId", handlers.HandleDeleteReport)
}
