package handler

import (
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	sales service.SalesService
}

func NewSalesHandler(sales service.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	orders, err := h.sales.ListOrders(c.UserContext(), c.QueryInt("limit", repository.DefaultListLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	order, err := h.sales.GetOrder(c.UserContext(), c.Params("orderNo"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	var in service.PlaceSaleInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	receipt, err := h.sales.PlaceSale(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "sale recorded", "data": receipt})
}
