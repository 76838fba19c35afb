package domain

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleBuyer, RoleSeller, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	for _, r := range []Role{RoleNone, "owner", "BUYER"} {
		if r.Valid() {
			t.Fatalf("%q should be invalid", string(r))
		}
	}
	if RoleNone.String() != "none" || RoleAdmin.String() != "admin" {
		t.Fatal("unexpected role names")
	}
}

func TestSessionRoleNeedsToken(t *testing.T) {
	user := SessionUser{ID: "u-1", Role: RoleBuyer}
	if (Session{User: user}).Role() != RoleNone {
		t.Fatal("a user record without credential has no role")
	}
	if (Session{Token: "t", User: user}).Role() != RoleBuyer {
		t.Fatal("expected buyer")
	}
	if (Session{Token: "t", User: SessionUser{ID: "u-1", Role: "ghost"}}).Role() != RoleNone {
		t.Fatal("unknown role reads as none")
	}
}
