package domain

import (
	"time"

	"apex-tracker/internal/core/validation"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is one entry of the users collection shown on the admin dashboard.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminCredential is the single stored admin login. Only the bcrypt hash of
// the password is persisted.
type AdminCredential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}

// DefaultUsers returns the users written when the collection is empty.
func DefaultUsers(now time.Time) []User {
	return []User{
		{ID: "user1", Name: "Admin User", Email: "admin@apexshipping.com", Role: RoleAdmin, CreatedAt: now},
		{ID: "user2", Name: "Regular User", Email: "user@example.com", Role: RoleUser, CreatedAt: now},
	}
}

// AddUserRequest is the admin add-user form.
type AddUserRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=admin user"`
}

// Validate checks the form fields.
func (r *AddUserRequest) Validate() error {
	return validation.Struct(r)
}

// LoginRequest is the admin login form.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}
