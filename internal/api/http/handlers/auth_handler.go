package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/carenest/marketplace/internal/api/dto"
	"github.com/carenest/marketplace/internal/service"
)

// AuthHandler exposes phone verification and admin sign-in.
type AuthHandler struct {
	sessions  *service.PhoneSessionService
	auth      *service.AuthService
	exposeOTP bool
}

// NewAuthHandler constructs handler. exposeOTP echoes issued codes in the
// response for development deployments.
func NewAuthHandler(sessions *service.PhoneSessionService, authService *service.AuthService, exposeOTP bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, auth: authService, exposeOTP: exposeOTP}
}

// SubmitPhone handles POST /auth.
func (h *AuthHandler) SubmitPhone(c *fiber.Ctx) error {
	var req dto.PhoneRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.sessions.Issue(c.UserContext(), req.Code, req.Number)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "OTP sent to "+session.Phone.E164(), dto.NewPhoneSessionResponse(session, h.exposeOTP))
}

// VerifyOTP handles POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Authenticate(c.UserContext(), service.AuthenticateInput{
		Code:          req.Code,
		Number:        req.Number,
		OTP:           req.OTP,
		RequestedRole: req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(authBody(result, "OTP verified successfully"))
}

// AdminLogin handles POST /admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authBody(result, "Login successful"))
}

func authBody(result *service.AuthResult, message string) fiber.Map {
	body := fiber.Map{
		"success":      true,
		"message":      message,
		"data":         dto.NewAccountResponse(result.Account),
		"access_token": result.AccessToken,
		"newUser":      result.NewAccount,
	}
	if !result.ExpiresAt.IsZero() {
		body["expires_at"] = result.ExpiresAt
	}
	return body
}
