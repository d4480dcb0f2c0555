package domain

// Role identifies the privilege carried by an issued token.
type Role string

const RoleAdmin Role = "admin"

// AdminUser is the authenticated administrator identity returned to clients.
type AdminUser struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
