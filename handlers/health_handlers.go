package handlers

import (
	"github.com/gofiber/fiber/v2"

	"app/database"
)

// HandleHealth reports service and database health.
// GET /health
func HandleHealth(c *fiber.Ctx) error {
	if err := database.GetDB().Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "Database ping failed"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "ok"})
}
