package auth

import "leavedesk/internal/user"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterRequest struct {
	Email        string            `json:"email" binding:"required,email"`
	Password     string            `json:"password" binding:"required,min=6"`
	Name         string            `json:"name" binding:"required"`
	Role         string            `json:"role" binding:"required,oneof=EMPLOYEE MANAGER"`
	Department   string            `json:"department" binding:"required"`
	LeaveBalance user.LeaveBalance `json:"leaveBalance"`
}

// UserResponse is the identity record without the password hash.
type UserResponse struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Department   string            `json:"department"`
	LeaveBalance user.LeaveBalance `json:"leaveBalance"`
	CreatedAt    string            `json:"createdAt"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
