package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/storefront-labs/storefront/internal/domain"
)

// Endpoint paths below the API base path.
const (
	PathLogin      = "/auth/login"
	PathRegister   = "/auth/register"
	PathMe         = "/auth/me"
	PathProducts   = "/products"
	PathCategories = "/categories"
	PathCart       = "/cart"
	PathCartItems  = "/cart/items"
	PathOrders     = "/orders"
	PathAddresses  = "/addresses"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      domain.SessionUser `json:"user"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var res AuthResult
	if err := c.Do(ctx, http.MethodPost, PathLogin, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	var res AuthResult
	if err := c.Do(ctx, http.MethodPost, PathRegister, reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me looks up the user behind the current credential.
func (c *Client) Me(ctx context.Context) (*domain.SessionUser, error) {
	var user domain.SessionUser
	if err := c.Do(ctx, http.MethodGet, PathMe, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Products lists catalog products, optionally filtered by category.
func (c *Client) Products(ctx context.Context, categoryID string) ([]domain.Product, error) {
	path := PathProducts
	if categoryID != "" {
		path += "?" + url.Values{"category_id": {categoryID}}.Encode()
	}
	var products []domain.Product
	if err := c.Do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one product.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.Do(ctx, http.MethodGet, PathProducts+"/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds a product for the signed-in seller.
func (c *Client) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := c.Do(ctx, http.MethodPost, PathProducts, product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Categories lists catalog categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.Do(ctx, http.MethodGet, PathCategories, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category; admin only on the API side.
func (c *Client) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	var created domain.Category
	if err := c.Do(ctx, http.MethodPost, PathCategories, category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Cart fetches the buyer's cart. A new account gets a 404 here.
func (c *Client) Cart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.Do(ctx, http.MethodGet, PathCart, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity of a product, creating the cart when needed.
func (c *Client) AddToCart(ctx context.Context, item domain.CartItem) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.Do(ctx, http.MethodPost, PathCartItems, item, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Orders lists the buyer's orders.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.Do(ctx, http.MethodGet, PathOrders, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder checks out the cart to addressID.
func (c *Client) PlaceOrder(ctx context.Context, addressID string) (*domain.Order, error) {
	var order domain.Order
	body := map[string]string{"address_id": addressID}
	if err := c.Do(ctx, http.MethodPost, PathOrders, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Addresses lists the buyer's addresses.
func (c *Client) Addresses(ctx context.Context) ([]domain.Address, error) {
	var addresses []domain.Address
	if err := c.Do(ctx, http.MethodGet, PathAddresses, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress stores a new address.
func (c *Client) CreateAddress(ctx context.Context, address domain.Address) (*domain.Address, error) {
	var created domain.Address
	if err := c.Do(ctx, http.MethodPost, PathAddresses, address, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
