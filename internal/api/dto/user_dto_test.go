package dto

import (
	"slices"
	"testing"
)

func TestMissingFields(t *testing.T) {
	if got := (RegisterRequest{Email: "a@b.c", Password: " "}).Missing(); !slices.Equal(got, []string{"name", "password"}) {
		t.Fatalf("register missing = %v", got)
	}
	if got := (LoginRequest{Email: "a@b.c", Password: "pw"}).Missing(); len(got) != 0 {
		t.Fatalf("login missing = %v", got)
	}
}
