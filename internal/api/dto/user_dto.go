package dto

import (
	"slices"
	"strings"
	"time"

	"github.com/storefront-labs/storefront/internal/domain"
)

// RegisterRequest is the body of POST /auth/register and of the shell's
// register form. An empty role registers a buyer.
type RegisterRequest struct {
	Name     string      `json:"name" form:"name"`
	Email    string      `json:"email" form:"email"`
	Password string      `json:"password" form:"password"`
	Role     domain.Role `json:"role" form:"role"`
}

// Missing names the required fields left blank.
func (r RegisterRequest) Missing() []string {
	return blank(map[string]string{"name": r.Name, "email": r.Email, "password": r.Password})
}

// LoginRequest is the body of POST /auth/login and of the shell's login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r LoginRequest) Missing() []string {
	return blank(map[string]string{"email": r.Email, "password": r.Password})
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      domain.SessionUser `json:"user"`
}

func NewAuthResponse(user *domain.User, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{Token: token, ExpiresAt: expiresAt, User: user.SessionUser()}
}

// PlaceOrderRequest checks out the cart.
type PlaceOrderRequest struct {
	AddressID string `json:"address_id" form:"address_id"`
}

func blank(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return missing
}
