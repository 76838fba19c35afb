package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/repository"
)

// FixturePassword is the password of every seeded account.
const FixturePassword = "storefront-dev"

// Fixture accounts, one per role.
var FixtureAccounts = []struct {
	Name  string
	Email string
	Role  domain.Role
}{
	{Name: "Bea Buyer", Email: "buyer@storefront.test", Role: domain.RoleBuyer},
	{Name: "Sam Seller", Email: "seller@storefront.test", Role: domain.RoleSeller},
	{Name: "Ada Admin", Email: "admin@storefront.test", Role: domain.RoleAdmin},
}

// SeedFixtures creates the fixture accounts and a small catalog. Accounts
// that already exist are left alone.
func SeedFixtures(ctx context.Context, auth *AuthService, catalog repository.CatalogRepository, logger *zap.Logger) error {
	var sellerID string
	for _, acct := range FixtureAccounts {
		user, err := auth.Seed(ctx, acct.Name, acct.Email, FixturePassword, acct.Role)
		if errors.Is(err, repository.ErrDuplicateEmail) {
			logger.Debug("fixture account exists", zap.String("email", acct.Email))
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", acct.Email, err)
		}
		if acct.Role == domain.RoleSeller {
			sellerID = user.ID
		}
	}

	category := &domain.Category{Name: "Tea", Slug: "tea"}
	if err := catalog.CreateCategory(ctx, category); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	for _, p := range []domain.Product{
		{Name: "Sencha", PriceCents: 1200, Stock: 40},
		{Name: "Assam", PriceCents: 900, Stock: 25},
	} {
		p.SellerID = sellerID
		p.CategoryID = category.ID
		if err := catalog.CreateProduct(ctx, &p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	logger.Info("fixtures seeded", zap.Int("accounts", len(FixtureAccounts)))
	return nil
}
