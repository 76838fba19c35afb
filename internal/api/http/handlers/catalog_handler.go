package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront-labs/storefront/internal/auth"
	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/repository"
	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

// CatalogHandler serves products and categories.
type CatalogHandler struct {
	catalog repository.CatalogRepository
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext(), c.Query("category_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// GetProduct handles GET /products/:id.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// CreateProduct handles POST /products for sellers and admins.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var product domain.Product
	if err := c.BodyParser(&product); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(product.Name) == "" || product.PriceCents <= 0 {
		return apperrors.NewValidationError("name and a positive price are required", nil)
	}
	if principal != nil && principal.User != nil {
		product.SellerID = principal.User.ID
	}
	if err := h.catalog.CreateProduct(c.UserContext(), &product); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": product})
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// CreateCategory handles POST /categories for admins.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category domain.Category
	if err := c.BodyParser(&category); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(category.Name) == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if category.Slug == "" {
		category.Slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(category.Name), " ", "-"))
	}
	if err := h.catalog.CreateCategory(c.UserContext(), &category); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": category})
}
