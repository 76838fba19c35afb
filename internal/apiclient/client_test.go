package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront-labs/storefront/internal/domain"
)

func TestClientJoinsBaseURLAndPath(t *testing.T) {
	c := NewClient(Options{BaseURL: "127.0.0.1:9000/", BasePath: "/api/"}, nil, Policy{})
	if c.Endpoint() != "http://127.0.0.1:9000/api" {
		t.Fatalf("endpoint = %q", c.Endpoint())
	}
}

func TestClientDecodesEnvelope(t *testing.T) {
	var gotPath, gotQuery, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		if r.Body != nil {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if id, ok := body["address_id"].(string); ok {
				gotBody = id
			}
		}
		switch r.URL.Path {
		case "/api/products":
			_, _ = w.Write([]byte(`{"data":[{"id":"p-1","name":"Sencha","price_cents":1200}]}`))
		case "/api/orders":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"id":"o-1","status":"pending"}}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	c := NewClient(Options{BaseURL: server.URL, BasePath: "/api"}, http.DefaultTransport, Policy{})
	ctx := context.Background()

	products, err := c.Products(ctx, "tea")
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Sencha" || products[0].PriceCents != 1200 {
		t.Fatalf("products = %+v", products)
	}
	if gotPath != "/api/products" || gotQuery != "category_id=tea" {
		t.Fatalf("request = %s?%s", gotPath, gotQuery)
	}

	order, err := c.PlaceOrder(ctx, "a-1")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.ID != "o-1" || order.Status != domain.OrderStatusPending || gotBody != "a-1" {
		t.Fatalf("order = %+v body %q", order, gotBody)
	}

	if err := c.Do(ctx, http.MethodDelete, PathMe, nil, &struct{}{}); err != nil {
		t.Fatalf("no content: %v", err)
	}
}

func TestClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cart":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"cart not found"}}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`upstream down`))
		}
	}))
	defer server.Close()

	policy := DefaultPolicy("/api", "/auth/me", "/cart")
	c := NewClient(Options{BaseURL: server.URL, BasePath: "/api"}, http.DefaultTransport, policy)
	ctx := context.Background()

	_, err := c.Cart(ctx)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Code != "NOT_FOUND" || apiErr.Classification != Recoverable {
		t.Fatalf("error = %+v", apiErr)
	}
	if !errors.Is(err, ErrNotFound) || errors.Is(err, ErrSessionExpired) {
		t.Fatalf("errors.Is mismatch for %v", err)
	}

	_, err = c.Orders(ctx)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Code != "" {
		t.Fatalf("err = %v", err)
	}
	if apiErr.Error() != "GET /orders: 502 Bad Gateway" {
		t.Fatalf("message = %q", apiErr.Error())
	}
}
