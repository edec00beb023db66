package handler

import (
	"foodbank-inventory/internal/middleware"
	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	resolver *resolver.Resolver
	log      *logger.Logger
}

func NewInventoryHandler(r *resolver.Resolver, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{resolver: r, log: log}
}

// CreateCategoryRequest represents the category body
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.resolver.Categories(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(categories)
}

func (h *InventoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.resolver.Category(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if category == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}
	return c.JSON(category)
}

func (h *InventoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.resolver.AddCategory(c.UserContext(), middleware.CallerFrom(c), req.Name)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *InventoryHandler) DeleteCategory(c *fiber.Ctx) error {
	category, err := h.resolver.DeleteCategory(c.UserContext(), middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if category == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}
	return c.JSON(fiber.Map{"message": "Category deleted", "data": category})
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	if name := c.Query("name"); name != "" {
		product, err := h.resolver.ProductByName(c.UserContext(), name)
		if err != nil {
			return respondError(c, h.log, err)
		}
		if product == nil {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.JSON(product)
	}

	products, err := h.resolver.Products(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.resolver.Product(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if product == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req resolver.AddProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.resolver.AddProduct(c.UserContext(), middleware.CallerFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	var req resolver.UpdateProductInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.resolver.UpdateProduct(c.UserContext(), middleware.CallerFrom(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DeleteProduct answers 404 when there was nothing to delete
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	deleted, err := h.resolver.DeleteProduct(c.UserContext(), middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if deleted == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted", "data": deleted})
}
