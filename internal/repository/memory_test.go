package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/storefront-labs/storefront/internal/domain"
)

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{Name: "Bea", Email: "Bea@Example.com", Role: domain.RoleBuyer}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" || user.Email != "bea@example.com" {
		t.Fatalf("created = %+v", user)
	}
	if err := repo.Create(ctx, &domain.User{Email: "BEA@example.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("duplicate err = %v", err)
	}

	got, err := repo.GetByEmail(ctx, "bea@EXAMPLE.com")
	if err != nil || got.ID != user.ID {
		t.Fatalf("get by email = %+v %v", got, err)
	}

	got.Email = "bea@shop.test"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "bea@example.com"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("old email still resolves: %v", err)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("get deleted = %v", err)
	}
	if err := repo.Delete(ctx, user.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("second delete = %v", err)
	}
}

func TestMemoryCatalogCartAndOrders(t *testing.T) {
	repo := NewMemoryCatalogRepository()
	ctx := context.Background()

	if _, err := repo.GetCart(ctx, "u-1"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("new account cart err = %v, want ErrNoRows", err)
	}

	product := &domain.Product{Name: "Sencha", PriceCents: 1200}
	_ = repo.CreateProduct(ctx, product)
	if _, err := repo.AddCartItem(ctx, "u-1", domain.CartItem{ProductID: "missing", Quantity: 1}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("unknown product err = %v", err)
	}

	_, _ = repo.AddCartItem(ctx, "u-1", domain.CartItem{ProductID: product.ID, Quantity: 1})
	cart, err := repo.AddCartItem(ctx, "u-1", domain.CartItem{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("cart = %+v", cart)
	}

	if _, err := repo.CreateOrderFromCart(ctx, "u-1", "nowhere"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("unknown address err = %v", err)
	}
	address := &domain.Address{UserID: "u-1", Line1: "1 Main St", City: "Lyon", Country: "FR"}
	_ = repo.CreateAddress(ctx, address)

	order, err := repo.CreateOrderFromCart(ctx, "u-1", address.ID)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if order.TotalCents != 3600 || order.Status != domain.OrderStatusPending {
		t.Fatalf("order = %+v", order)
	}
	if _, err := repo.GetCart(ctx, "u-1"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatal("checkout should empty the cart")
	}
	if _, err := repo.CreateOrderFromCart(ctx, "u-1", address.ID); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty checkout err = %v", err)
	}

	orders, _ := repo.ListOrders(ctx, "u-1")
	if len(orders) != 1 {
		t.Fatalf("orders = %v", orders)
	}
}

func TestMemoryCatalogProductsByCategory(t *testing.T) {
	repo := NewMemoryCatalogRepository()
	ctx := context.Background()

	tea := &domain.Category{Name: "Tea"}
	_ = repo.CreateCategory(ctx, tea)
	_ = repo.CreateProduct(ctx, &domain.Product{Name: "Sencha", CategoryID: tea.ID})
	_ = repo.CreateProduct(ctx, &domain.Product{Name: "Mug"})

	all, _ := repo.ListProducts(ctx, "")
	teas, _ := repo.ListProducts(ctx, tea.ID)
	if len(all) != 2 || len(teas) != 1 || teas[0].Name != "Sencha" {
		t.Fatalf("all %v teas %v", all, teas)
	}
	if _, err := repo.GetProduct(ctx, "missing"); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("missing product err = %v", err)
	}
}
