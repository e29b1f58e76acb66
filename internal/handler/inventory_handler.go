package handler

import (
	"strconv"

	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	catalog   service.CatalogService
	inventory service.InventoryService
}

func NewInventoryHandler(catalog service.CatalogService, inventory service.InventoryService) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, inventory: inventory}
}

// GetProducts handles GET /products?model=&in_stock=true&order=model
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		ModelContains: c.Query("model"),
		InStockOnly:   c.QueryBool("in_stock", false),
		OrderByModel:  c.Query("order") == "model",
	}
	products, err := h.catalog.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetInventory handles GET /inventory?model= : stock levels sorted by model.
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext(), repository.ProductFilter{
		ModelContains: c.Query("model"),
		OrderByModel:  true,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product ID"})
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var in service.AddProductInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	product, err := h.catalog.AddProduct(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "product created", "data": product})
}

func (h *InventoryHandler) GetStockIns(c *fiber.Ctx) error {
	rows, err := h.inventory.ListStockIns(c.UserContext(), c.QueryInt("limit", repository.DefaultListLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func (h *InventoryHandler) CreateStockIn(c *fiber.Ctx) error {
	var in service.ReceiveStockInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}
	id, err := h.inventory.ReceiveStock(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "stock received", "id": id})
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(n), nil
}
