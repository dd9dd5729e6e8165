package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required,min=1"`
	Password string `form:"password" json:"password" validate:"required,min=1"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `form:"currentPassword" validate:"required"`
	NewPassword     string `form:"newPassword"     validate:"required"`
	ConfirmPassword string `form:"confirmPassword" validate:"required"`
}

type CreateUserRequest struct {
	Username string  `json:"username"  validate:"required,min=1,max=100"`
	FullName string  `json:"full_name" validate:"max=255"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password string  `json:"password"  validate:"required,min=6"`
	Role     string  `json:"role"      validate:"required,oneof=ADMIN MANAGER"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // seconds
	User      UserResponse `json:"user"`
}
