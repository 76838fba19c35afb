package role

import (
	"context"
	"testing"
	"time"

	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/notify"
	"github.com/storefront-labs/storefront/internal/session"
)

type fixture struct {
	store    *session.Store
	notifier *notify.Notifier
	observer *Observer
	area     session.Area
	bus      *session.MemoryBus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bus := session.NewMemoryBus()
	area := bus.Area()
	n, err := notify.New(area, session.KeysFor("sf:"), nil)
	if err != nil {
		t.Fatalf("notifier: %v", err)
	}
	store := session.NewStore(area, n, session.StoreOptions{KeyPrefix: "sf:"})
	obs := NewObserver(store, n, nil)
	t.Cleanup(func() {
		obs.Close()
		n.Close()
	})
	return &fixture{store: store, notifier: n, observer: obs, area: area, bus: bus}
}

func user(id string, r domain.Role) domain.SessionUser {
	return domain.SessionUser{ID: id, Role: r}
}

func TestObserverStartsFromPersistedSession(t *testing.T) {
	bus := session.NewMemoryBus()
	area := bus.Area()
	store := session.NewStore(area, nil, session.StoreOptions{})
	_ = store.Write(context.Background(), "tok", user("u-1", domain.RoleSeller))

	obs := NewObserver(store, nil, nil)
	if obs.Role() != domain.RoleSeller {
		t.Fatalf("role = %s, want seller", obs.Role())
	}
	if !obs.IsAuthenticated() {
		t.Fatal("expected authenticated")
	}
}

func TestObserverSeesWriteBeforeWriteReturns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if f.observer.Role() != domain.RoleNone {
		t.Fatalf("initial role = %s", f.observer.Role())
	}
	_ = f.store.Write(ctx, "tok", user("u-1", domain.RoleBuyer))
	if f.observer.Role() != domain.RoleBuyer {
		t.Fatalf("role after write = %s", f.observer.Role())
	}
	_ = f.store.Clear(ctx)
	if f.observer.Role() != domain.RoleNone || f.observer.IsAuthenticated() {
		t.Fatalf("role after clear = %s", f.observer.Role())
	}
}

func TestObserverFollowsOtherContexts(t *testing.T) {
	f := newFixture(t)
	other := session.NewStore(f.bus.Area(), nil, session.StoreOptions{KeyPrefix: "sf:"})
	ctx := context.Background()

	_ = f.observer.Role()
	_ = other.Write(ctx, "tok", user("u-2", domain.RoleAdmin))
	if f.observer.Role() != domain.RoleAdmin {
		t.Fatalf("role = %s, want admin", f.observer.Role())
	}
	_ = other.Clear(ctx)
	if f.observer.Role() != domain.RoleNone {
		t.Fatalf("role = %s, want none", f.observer.Role())
	}
}

func TestObserverNotifiesOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.observer.Role()

	var seen []domain.Role
	unsubscribe := f.observer.Subscribe(func(r domain.Role) { seen = append(seen, r) })
	defer unsubscribe()

	_ = f.store.Write(ctx, "tok", user("u-1", domain.RoleBuyer))
	_ = f.store.Write(ctx, "tok-2", user("u-1", domain.RoleBuyer))
	f.notifier.Signal()
	_ = f.store.Clear(ctx)
	_ = f.store.Clear(ctx)

	if len(seen) != 2 || seen[0] != domain.RoleBuyer || seen[1] != domain.RoleNone {
		t.Fatalf("seen = %v, want [buyer none]", seen)
	}
}

func TestObserverCorruptedSessionIsNone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.store.Write(ctx, "tok", user("u-1", domain.RoleBuyer))

	keys := f.store.Keys()
	_ = f.area.Put(ctx, map[string]string{keys[1]: "garbage"})
	f.notifier.Signal()

	if f.observer.Role() != domain.RoleNone {
		t.Fatalf("role = %s, want none", f.observer.Role())
	}
}

func TestObserverCloseStopsRefreshing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.observer.Role()
	f.observer.Close()

	_ = f.store.Write(ctx, "tok", user("u-1", domain.RoleBuyer))
	if f.observer.Role() != domain.RoleNone {
		t.Fatalf("closed observer refreshed to %s", f.observer.Role())
	}
	f.observer.Refresh()
	if f.observer.Role() != domain.RoleBuyer {
		t.Fatalf("explicit refresh = %s", f.observer.Role())
	}
}

func TestObserverSubscriberMayMutateStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.observer.Role()

	var seen []domain.Role
	unsubscribe := f.observer.Subscribe(func(r domain.Role) {
		seen = append(seen, r)
		if r == domain.RoleBuyer {
			_ = f.store.Clear(ctx)
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.store.Write(ctx, "tok", user("u-1", domain.RoleBuyer))
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("write from inside a subscriber never returned")
	}

	if f.observer.Role() != domain.RoleNone {
		t.Fatalf("role = %s, want none", f.observer.Role())
	}
	if len(seen) != 2 || seen[0] != domain.RoleBuyer || seen[1] != domain.RoleNone {
		t.Fatalf("seen = %v, want [buyer none]", seen)
	}
}
