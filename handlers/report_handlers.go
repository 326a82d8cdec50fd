package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"app/middleware"
	"app/models"
	"app/reports"
	"app/utils"
)

var reportService *reports.Service

// InitReportHandlers wires the report service into the handler package.
func InitReportHandlers(svc *reports.Service) {
	reportService = svc
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, reports.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, reports.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reports.ErrNotReady):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleGenerateReport runs a full report generation for the caller.
// POST /api/v1/reports
func HandleGenerateReport(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	rep, err := reportService.Generate(c.Context(), claims.UserID, req)
	if err != nil {
		utils.GetLogger().Error("report generation failed",
			zap.String("userId", claims.UserID), zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": rep})
}

// HandleListReports returns the reports visible to the caller.
// GET /api/v1/reports
func HandleListReports(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 10)
	authority := claims.Role == models.RoleAuthority

	list, pagination, err := reportService.List(c.Context(), claims.UserID, authority, page, pageSize)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"success": false, "message": "Failed to list reports"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"reports": list, "pagination": pagination}})
}

// HandleGetReport returns one report with its payload.
// GET /api/v1/reports/:reportId
func HandleGetReport(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	rep, err := reportService.Get(c.Context(), c.Params("reportId"), claims.UserID, claims.Role == models.RoleAuthority)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": rep})
}

// HandleDownloadReport streams the rendered report document.
// GET /api/v1/reports/:reportId/download
func HandleDownloadReport(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	doc, filename, err := reportService.Download(c.Context(), c.Params("reportId"), claims.UserID, claims.Role == models.RoleAuthority)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}

// HandleDeleteReport removes a report on explicit owner action.
// DELETE /api/v1/reports/:reportId
func HandleDeleteReport(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	if err := reportService.Delete(c.Context(), c.Params("reportId"), claims.UserID); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Report deleted"})
}
