package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/storefront-labs/storefront/internal/domain"
)

var (
	// ErrDuplicateEmail is returned when an account already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrEmptyCart blocks checkout of a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// CatalogRepository stores the storefront resources served by the
// development API. Misses return pgx.ErrNoRows like the user repository.
type CatalogRepository interface {
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddCartItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	CreateOrderFromCart(ctx context.Context, userID, addressID string) (*domain.Order, error)
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, address *domain.Address) error
}

type memoryCatalog struct {
	mu         sync.RWMutex
	products   map[string]domain.Product
	categories map[string]domain.Category
	carts      map[string]*domain.Cart
	orders     map[string][]domain.Order
	addresses  map[string][]domain.Address
}

// NewMemoryCatalogRepository returns an empty in-memory catalog.
func NewMemoryCatalogRepository() CatalogRepository {
	return &memoryCatalog{
		products:   make(map[string]domain.Product),
		categories: make(map[string]domain.Category),
		carts:      make(map[string]*domain.Cart),
		orders:     make(map[string][]domain.Order),
		addresses:  make(map[string][]domain.Address),
	}
}

func (m *memoryCatalog) ListProducts(_ context.Context, categoryID string) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (m *memoryCatalog) CreateProduct(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	product.ID = uuid.NewString()
	m.products[product.ID] = *product
	return nil
}

func (m *memoryCatalog) ListCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryCatalog) CreateCategory(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	category.ID = uuid.NewString()
	m.categories[category.ID] = *category
	return nil
}

func (m *memoryCatalog) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cart, ok := m.carts[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyCart(cart), nil
}

func (m *memoryCatalog) AddCartItem(_ context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[item.ProductID]; !ok {
		return nil, pgx.ErrNoRows
	}
	cart, ok := m.carts[userID]
	if !ok {
		cart = &domain.Cart{ID: uuid.NewString(), UserID: userID}
		m.carts[userID] = cart
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			return copyCart(cart), nil
		}
	}
	cart.Items = append(cart.Items, item)
	return copyCart(cart), nil
}

func (m *memoryCatalog) ListOrders(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]domain.Order{}, m.orders[userID]...), nil
}

func (m *memoryCatalog) CreateOrderFromCart(_ context.Context, userID, addressID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasAddressLocked(userID, addressID) {
		return nil, pgx.ErrNoRows
	}
	cart, ok := m.carts[userID]
	if !ok || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	for _, item := range cart.Items {
		total += m.products[item.ProductID].PriceCents * int64(item.Quantity)
	}
	order := domain.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		AddressID:  addressID,
		Items:      append([]domain.CartItem{}, cart.Items...),
		TotalCents: total,
		Status:     domain.OrderStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	m.orders[userID] = append(m.orders[userID], order)
	delete(m.carts, userID)
	return &order, nil
}

func (m *memoryCatalog) ListAddresses(_ context.Context, userID string) ([]domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]domain.Address{}, m.addresses[userID]...), nil
}

func (m *memoryCatalog) CreateAddress(_ context.Context, address *domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	address.ID = uuid.NewString()
	m.addresses[address.UserID] = append(m.addresses[address.UserID], *address)
	return nil
}

func (m *memoryCatalog) hasAddressLocked(userID, addressID string) bool {
	for _, a := range m.addresses[userID] {
		if a.ID == addressID {
			return true
		}
	}
	return false
}

func copyCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = append([]domain.CartItem{}, c.Items...)
	return &out
}
