package dto

import (
	"time"

	"basurahub/internal/http-api/models"
)

// RegisterRequest: payload for resident self-registration
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	BarangayID  *int64 `json:"barangay_id,omitempty"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse: public view of a user account
type UserResponse struct {
	UserID      string     `json:"user_id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Address     string     `json:"address,omitempty"`
	BarangayID  *int64     `json:"barangay_id,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		BarangayID:  user.BarangayID,
		LastLogin:   user.LastLogin,
	}
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
	ExpiresIn    int64        `json:"expires_in"` // seconds
}

// RefreshTokenRequest: payload for refreshing or revoking an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse: response payload after refreshing access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}
