package nav

import (
	"context"
	"testing"
)

func TestPendingKeepsLastTarget(t *testing.T) {
	p := &Pending{}
	if _, ok := p.Target(); ok {
		t.Fatal("fresh pending has no target")
	}
	p.Navigate("/login")
	p.Navigate("/")
	if target, ok := p.Target(); !ok || target != "/" || p.Count() != 2 {
		t.Fatalf("target %q ok %v count %d", target, ok, p.Count())
	}
}

func TestFromContext(t *testing.T) {
	var got string
	fallback := Func(func(path string) { got = "fallback:" + path })

	FromContext(context.Background(), fallback).Navigate("/a")
	if got != "fallback:/a" {
		t.Fatalf("got %q", got)
	}

	p := &Pending{}
	FromContext(WithNavigator(context.Background(), p), fallback).Navigate("/b")
	if target, _ := p.Target(); target != "/b" || got != "fallback:/a" {
		t.Fatalf("scoped navigator not used: %q %q", target, got)
	}

	FromContext(context.Background(), nil).Navigate("/c")
}

func TestLocation(t *testing.T) {
	l := NewLocation("/")
	l.Navigate("/cart")
	if l.Current() != "/cart" {
		t.Fatalf("current = %q", l.Current())
	}
}
