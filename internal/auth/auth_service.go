package auth

import (
	"context"
	"os"
	"time"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type Service interface {
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	GetMe(ctx context.Context, userID string) (UserResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	users user.Repository
}

func NewService(users user.Repository) Service {
	return &service{users: users}
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, err
	}
	if u == nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := generateToken(u.ID, u.Email, u.Role, tokenTTL)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return AuthResponse{
		User:  mapToUserResponse(*u),
		Token: token,
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	if u == nil {
		return UserResponse{}, autherrors.ErrUserNotFound
	}

	return mapToUserResponse(*u), nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	if existing != nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Password:     string(hashed),
		Name:         req.Name,
		Role:         req.Role,
		Department:   req.Department,
		LeaveBalance: req.LeaveBalance,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.users.Save(ctx, u); err != nil {
		return AuthResponse{}, err
	}

	token, err := generateToken(u.ID, u.Email, u.Role, tokenTTL)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return AuthResponse{
		User:  mapToUserResponse(*u),
		Token: token,
	}, nil
}

func generateToken(userID, email, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Department:   u.Department,
		LeaveBalance: u.LeaveBalance,
		CreatedAt:    u.CreatedAt,
	}
}
