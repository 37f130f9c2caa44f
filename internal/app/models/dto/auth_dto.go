package dto

// RegisterRequest represents the data needed to create an account.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password  string `json:"password" validate:"required,min=8,max=72" example:"s3cret-pass"`
	FirstName string `json:"firstName" validate:"required,max=100" example:"Ada"`
	LastName  string `json:"lastName" validate:"required,max=100" example:"Lovelace"`
	Role      string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR" example:"INSTRUCTOR"`
}

// LoginRequest represents login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret-pass"`
}

// RefreshTokenRequest carries the opaque refresh token to rotate.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required" example:"0b42c7a2-..."`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
}

// UserResponse represents account data returned to clients.
type UserResponse struct {
	ID          int64    `json:"id" example:"1"`
	Email       string   `json:"email" example:"ada@example.com"`
	FirstName   string   `json:"firstName" example:"Ada"`
	LastName    string   `json:"lastName" example:"Lovelace"`
	Role        string   `json:"role" example:"INSTRUCTOR"`
	Permissions []string `json:"permissions,omitempty" example:"view_course,add_course"`
}
