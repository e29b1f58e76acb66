package handler

import (
	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customers service.CustomerService
}

func NewCustomerHandler(customers service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// GetCustomers handles GET /customers; ?order=name returns picker order.
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	var (
		customers []model.Customer
		err       error
	)
	if c.Query("order") == "name" {
		customers, err = h.customers.ListCustomersByName(c.UserContext())
	} else {
		customers, err = h.customers.ListCustomers(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var in service.AddCustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	customer, err := h.customers.AddCustomer(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "customer created", "data": customer})
}
