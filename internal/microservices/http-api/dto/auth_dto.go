package dto

// Data Transfer Objects for the signup/token exchange

// SignupRequest: payload for POST /auth/signup/
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150,username"`
	Email    string `json:"email" binding:"required,max=254,email"`
}

// SignupResponse echoes the account the code was sent for
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for POST /auth/token/
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: access token issued for a valid confirmation code
type TokenResponse struct {
	Token string `json:"token"`
}
