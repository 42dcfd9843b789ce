package dto

// LoginRequest carries the credentials for any role.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUser is the identity summary returned alongside a token.
type AuthUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
