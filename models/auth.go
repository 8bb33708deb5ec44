// ABOUTME: Auth request/response models and user records
// ABOUTME: Defines the /User/login contract and the persisted user profile

package models

import "time"

// RoleAdmin is the role allowed to manage users
const RoleAdmin = "Admin"

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login payload
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// User is both the admin-managed record and the logged-in profile
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserInput is the create/update payload for /User
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}
