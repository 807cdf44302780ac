package user

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
