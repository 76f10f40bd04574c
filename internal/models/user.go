package models

const (
	RoleUser        = "USER"
	RoleLocketAdmin = "LOCKET_ADMIN"
	RoleSuperAdmin  = "SUPER_ADMIN"
)

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
