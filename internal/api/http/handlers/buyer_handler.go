package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront-labs/storefront/internal/api/dto"
	"github.com/storefront-labs/storefront/internal/auth"
	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/repository"
	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

// BuyerHandler serves the cart, orders and addresses of the signed-in buyer.
type BuyerHandler struct {
	catalog repository.CatalogRepository
}

// NewBuyerHandler constructs handler.
func NewBuyerHandler(catalog repository.CatalogRepository) *BuyerHandler {
	return &BuyerHandler{catalog: catalog}
}

func userID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return "", apperrors.NewUnauthorized("missing principal")
	}
	return principal.User.ID, nil
}

// GetCart handles GET /cart. Accounts without a cart get 404.
func (h *BuyerHandler) GetCart(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	cart, err := h.catalog.GetCart(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cart})
}

// AddCartItem handles POST /cart/items.
func (h *BuyerHandler) AddCartItem(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var item domain.CartItem
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if item.ProductID == "" || item.Quantity <= 0 {
		return apperrors.NewValidationError("product_id and a positive quantity are required", nil)
	}
	cart, err := h.catalog.AddCartItem(c.UserContext(), uid, item)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cart})
}

// ListOrders handles GET /orders.
func (h *BuyerHandler) ListOrders(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	orders, err := h.catalog.ListOrders(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": orders})
}

// PlaceOrder handles POST /orders.
func (h *BuyerHandler) PlaceOrder(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil || req.AddressID == "" {
		return apperrors.NewValidationError("address_id is required", nil)
	}
	order, err := h.catalog.CreateOrderFromCart(c.UserContext(), uid, req.AddressID)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyCart) {
			return apperrors.NewConflict(err.Error(), nil)
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": order})
}

// ListAddresses handles GET /addresses.
func (h *BuyerHandler) ListAddresses(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	addresses, err := h.catalog.ListAddresses(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": addresses})
}

// CreateAddress handles POST /addresses.
func (h *BuyerHandler) CreateAddress(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var address domain.Address
	if err := c.BodyParser(&address); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if address.Line1 == "" || address.City == "" || address.Country == "" {
		return apperrors.NewValidationError("line1, city and country are required", nil)
	}
	address.UserID = uid
	if err := h.catalog.CreateAddress(c.UserContext(), &address); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": address})
}
