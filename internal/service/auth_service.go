package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodbank-inventory/internal/model"
	"foodbank-inventory/internal/repository"
	"foodbank-inventory/pkg/jwt"
	"foodbank-inventory/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Hash compared against when the email is unknown, so both failure paths cost one bcrypt check
var dummyHash = mustHash("not-a-real-password")

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("hash dummy password: %v", err))
	}
	return hash
}

type AuthService interface {
	AddUser(ctx context.Context, req *AddUserRequest) (*AuthPayload, error)
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type AddUserRequest struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AuthPayload is returned by addUser and login
type AuthPayload struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	users  repository.UserRepository
	tokens *jwt.Manager
	log    *logger.Logger
}

func NewAuthService(users repository.UserRepository, tokens *jwt.Manager, log *logger.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		log:    log.With("service", "auth"),
	}
}

func (s *authService) AddUser(ctx context.Context, req *AddUserRequest) (*AuthPayload, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = repository.NormalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	duplicate := &ValidationError{Field: "email", Reason: "already registered"}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, duplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	user := &model.User{Username: req.Username, Email: req.Email}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.CreatedBy = "self"
	user.UpdatedBy = "self"

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Field: "username", Reason: "email or username already registered"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.log.Warn("login rejected")
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		s.log.Warn("login rejected")
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to its user. Any failure is an AuthenticationError.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, &AuthenticationError{Message: err.Error()}
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthenticationError{Message: jwt.ErrInvalidToken.Error()}
		}
		return nil, fmt.Errorf("load token user: %w", err)
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user", userID.String(), "get user")
	}
	return user, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 6 {
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return notFoundOr(err, "user", email, "find user")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("password reset", "user_id", user.ID)
	return nil
}

func (s *authService) issue(user *model.User) (*AuthPayload, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthPayload{Token: token, User: user.ToResponse()}, nil
}
