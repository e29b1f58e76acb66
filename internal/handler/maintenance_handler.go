package handler

import (
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MaintenanceHandler struct {
	maintenance service.MaintenanceService
}

func NewMaintenanceHandler(maintenance service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

func (h *MaintenanceHandler) GetMaintenance(c *fiber.Ctx) error {
	rows, err := h.maintenance.ListMaintenance(c.UserContext(), c.QueryInt("limit", repository.DefaultListLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *MaintenanceHandler) CreateMaintenance(c *fiber.Ctx) error {
	var in service.AddMaintenanceInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	record, err := h.maintenance.AddMaintenance(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "maintenance logged", "data": record})
}
