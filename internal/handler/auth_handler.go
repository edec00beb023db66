package handler

import (
	"foodbank-inventory/internal/middleware"
	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	resolver *resolver.Resolver
	log      *logger.Logger
}

func NewAuthHandler(r *resolver.Resolver, log *logger.Logger) *AuthHandler {
	return &AuthHandler{resolver: r, log: log}
}

// RegisterRequest represents the sign-up request body
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns a token
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	payload, err := h.resolver.AddUser(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(payload)
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email and password are required"})
	}

	payload, err := h.resolver.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(payload)
}

// Me returns the signed-in user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.resolver.Me(c.UserContext(), middleware.CallerFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}
