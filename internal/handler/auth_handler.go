package handler

import (
	"go-shoplist/internal/model"
	"go-shoplist/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsRequest is the body shared by sign-up and sign-in
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and returns a fresh session
// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(model.Fail("Invalid JSON"))
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(model.Fail("Email and password are required"))
	}

	session, err := h.authService.SignUp(req.Email, req.Password)
	if err != nil {
		return c.Status(400).JSON(model.Fail(err.Error()))
	}

	return c.Status(201).JSON(model.OK("Account created", session))
}

// SignIn authenticates a user
// POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(model.Fail("Invalid JSON"))
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(model.Fail("Email and password are required"))
	}

	session, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		return c.Status(401).JSON(model.Fail(err.Error()))
	}

	return c.JSON(model.OK("Signed in", session))
}

// SignOut revokes the caller's outstanding tokens
// POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	raw, _ := c.Locals("user_id").(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		return c.Status(401).JSON(model.Fail("Unauthorized"))
	}

	if err := h.authService.SignOut(userID); err != nil {
		return c.Status(500).JSON(model.Fail("Failed to sign out"))
	}

	return c.JSON(model.OK("Signed out", nil))
}

// GetSession returns the current session for the presented token
// GET /api/v1/auth/session
func (h *AuthHandler) GetSession(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(401).JSON(model.Fail("Missing authorization token"))
	}

	session, err := h.authService.GetSession(token)
	if err != nil {
		return c.Status(401).JSON(model.Fail(err.Error()))
	}

	return c.JSON(model.OK("Session active", session))
}
