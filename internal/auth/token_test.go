package auth

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront-labs/storefront/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, exp, err := tm.GenerateToken("u-1", domain.RoleSeller)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 4*time.Minute {
		t.Fatalf("expiry too soon: %v", exp)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != domain.RoleSeller || claims.Issuer != TokenIssuer || claims.ID == "" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	other := NewTokenManager("other", 5)
	foreign, _, _ := other.GenerateToken("u-1", domain.RoleBuyer)

	sign := func(claims *Claims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return signed
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
	}

	noSubject := valid()
	noSubject.Subject = ""
	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	otherIssuer := valid()
	otherIssuer.Issuer = "someone-else"

	for name, token := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": foreign,
		"no subject":   sign(&Claims{RegisteredClaims: noSubject}),
		"expired":      sign(&Claims{RegisteredClaims: expired}),
		"no expiry":    sign(&Claims{RegisteredClaims: noExpiry}),
		"other issuer": sign(&Claims{RegisteredClaims: otherIssuer}),
	} {
		if _, err := tm.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
	if _, err := tm.ParseToken(sign(&Claims{Role: domain.RoleBuyer, RegisteredClaims: valid()})); err != nil {
		t.Fatalf("hand-signed valid token: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		token string
		ok    bool
	}{
		"Bearer abc":   {"abc", true},
		"bearer  abc ": {"abc", true},
		"Basic abc":    {"", false},
		"Bearer":       {"", false},
		"Bearer ":      {"", false},
		"":             {"", false},
	}
	for header, want := range cases {
		token, ok := BearerToken(header)
		if token != want.token || ok != want.ok {
			t.Fatalf("BearerToken(%q) = %q %v", header, token, ok)
		}
	}
}

func TestHasher(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !h.Matches(hash, "pw") {
		t.Fatal("password should match")
	}
	if h.Matches(hash, "nope") || h.Matches("not-a-hash", "pw") {
		t.Fatal("mismatch reported as match")
	}
	if NewHasher(99).cost != bcrypt.DefaultCost {
		t.Fatal("out of range cost should fall back to the default")
	}
}
