package web

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/api/dto"
	"github.com/storefront-labs/storefront/internal/apiclient"
	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/nav"
	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

func (s *Shell) home(c *fiber.Ctx) error {
	user, _ := s.sessions.Current(c.UserContext())
	return c.JSON(s.view("home", fiber.Map{"user": user}))
}

func (s *Shell) loginForm(c *fiber.Ctx) error {
	return c.JSON(s.view("login", fiber.Map{"fields": []string{"email", "password"}}))
}

func (s *Shell) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil || len(req.Missing()) > 0 {
		return apperrors.NewValidationError("email and password are required", nil)
	}
	user, err := s.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.apiError(err)
	}
	nav.FromContext(c.UserContext(), nil).Navigate(s.landing(user.Role))
	return nil
}

func (s *Shell) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil || len(req.Missing()) > 0 {
		return apperrors.NewValidationError("name, email and password are required", nil)
	}
	user, err := s.sessions.Register(c.UserContext(), apiclient.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return s.apiError(err)
	}
	nav.FromContext(c.UserContext(), nil).Navigate(s.landing(user.Role))
	return nil
}

func (s *Shell) logout(c *fiber.Ctx) error {
	if err := s.sessions.Logout(c.UserContext()); err != nil {
		s.logger.Error("logout failed", zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	nav.FromContext(c.UserContext(), nil).Navigate(s.paths.Login)
	return nil
}

func (s *Shell) sessionInfo(c *fiber.Ctx) error {
	r := s.observer.Role()
	return c.JSON(fiber.Map{
		"role":          r,
		"authenticated": r != domain.RoleNone,
		"location":      s.location.Current(),
	})
}

func (s *Shell) products(c *fiber.Ctx) error {
	products, err := s.api.Products(c.UserContext(), c.Query("category"))
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("products", products))
}

func (s *Shell) product(c *fiber.Ctx) error {
	product, err := s.api.Product(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("product", product))
}

// cart renders an empty cart for buyers who have not added anything yet.
func (s *Shell) cart(c *fiber.Ctx) error {
	cart, err := s.api.Cart(c.UserContext())
	if errors.Is(err, apiclient.ErrNotFound) {
		cart, err = &domain.Cart{Items: []domain.CartItem{}}, nil
	}
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("cart", cart))
}

func (s *Shell) addToCart(c *fiber.Ctx) error {
	var item domain.CartItem
	if err := c.BodyParser(&item); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	cart, err := s.api.AddToCart(c.UserContext(), item)
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("cart", cart))
}

func (s *Shell) orders(c *fiber.Ctx) error {
	orders, err := s.api.Orders(c.UserContext())
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("orders", orders))
}

func (s *Shell) placeOrder(c *fiber.Ctx) error {
	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := s.api.PlaceOrder(c.UserContext(), req.AddressID)
	if err != nil {
		return s.apiError(err)
	}
	return c.Status(http.StatusCreated).JSON(s.view("order", order))
}

func (s *Shell) addresses(c *fiber.Ctx) error {
	addresses, err := s.api.Addresses(c.UserContext())
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("addresses", addresses))
}

func (s *Shell) createAddress(c *fiber.Ctx) error {
	var address domain.Address
	if err := c.BodyParser(&address); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := s.api.CreateAddress(c.UserContext(), address)
	if err != nil {
		return s.apiError(err)
	}
	return c.Status(http.StatusCreated).JSON(s.view("address", created))
}

func (s *Shell) dashboard(c *fiber.Ctx) error {
	user, _ := s.sessions.Current(c.UserContext())
	return c.JSON(s.view("admin", fiber.Map{"user": user}))
}

func (s *Shell) adminProducts(c *fiber.Ctx) error {
	products, err := s.api.Products(c.UserContext(), "")
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("admin_products", products))
}

func (s *Shell) createProduct(c *fiber.Ctx) error {
	var product domain.Product
	if err := c.BodyParser(&product); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := s.api.CreateProduct(c.UserContext(), product)
	if err != nil {
		return s.apiError(err)
	}
	return c.Status(http.StatusCreated).JSON(s.view("admin_product", created))
}

func (s *Shell) categories(c *fiber.Ctx) error {
	categories, err := s.api.Categories(c.UserContext())
	if err != nil {
		return s.apiError(err)
	}
	return c.JSON(s.view("admin_categories", categories))
}

func (s *Shell) createCategory(c *fiber.Ctx) error {
	var category domain.Category
	if err := c.BodyParser(&category); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := s.api.CreateCategory(c.UserContext(), category)
	if err != nil {
		return s.apiError(err)
	}
	return c.Status(http.StatusCreated).JSON(s.view("admin_category", created))
}
