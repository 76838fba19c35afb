package domain

import "time"

// UserStatus is the lifecycle state of a storefront account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is an account as the development API stores it. Column tags follow
// the users table.
type User struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         Role       `db:"role"`
	Status       UserStatus `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// Active reports whether the account may sign in.
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}

// SessionUser projects the account onto the record kept by the frontend.
func (u *User) SessionUser() SessionUser {
	return SessionUser{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}
