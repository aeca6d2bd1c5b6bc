package dto

type UserDTO struct {
	ID       uint   `json:"id"`
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	Role     string `json:"role,omitempty"`
}

type UserCreateDTO struct {
	UserName string `json:"user_name" binding:"required,min=3,max=64"`
	FullName string `json:"full_name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	RoleID   uint   `json:"role_id" binding:"required"`
}

type UserUpdateDTO struct {
	FullName string `json:"full_name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email"`
	IsActive bool   `json:"is_active"`
	RoleID   uint   `json:"role_id" binding:"required"`
}

type LoginRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	UserName string `json:"user_name" binding:"required,min=3,max=64"`
	FullName string `json:"full_name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type TokenResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
