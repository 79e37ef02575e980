package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc   domain.AuthService
	cookieTTL time.Duration
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookieTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{
		authSvc:   authSvc,
		cookieTTL: cookieTTL,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OTPVerifyRequest represents OTP verification request
type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// EmailRequest carries a bare email body (resend, forgot password)
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the reset completion request
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// sendTokenResponse writes the session token as an http-only cookie and in
// the response body
func (h *AuthHandlers) sendTokenResponse(c *gin.Context, result *domain.AuthResult) {
	c.SetCookie("token", result.Token, int(h.cookieTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// Register handles account registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrAccountExists):
			fail(c, http.StatusBadRequest, "Account already exists")
		case errors.Is(err, domain.ErrOTPResendThrottled):
			fail(c, http.StatusTooManyRequests, "Please wait before requesting a new OTP")
		case errors.Is(err, domain.ErrEmailDelivery):
			fail(c, http.StatusInternalServerError, "Email could not be sent")
		default:
			fail(c, http.StatusInternalServerError, "Failed to register")
		}
		return
	}

	h.sendTokenResponse(c, result)
}

// Login handles account login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, "Please provide email and password")
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, domain.ErrNotVerified):
			fail(c, http.StatusUnauthorized, "Please verify your email first")
		default:
			fail(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	h.sendTokenResponse(c, result)
}

// VerifyOTP handles email verification
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrOTPInvalidOrExpired):
			fail(c, http.StatusBadRequest, "Invalid or expired OTP")
		default:
			fail(c, http.StatusInternalServerError, "OTP verification failed")
		}
		return
	}

	h.sendTokenResponse(c, result)
}

// ResendOTP handles re-issuing a verification code
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authSvc.ResendOTP(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			fail(c, http.StatusNotFound, "No account with that email")
		case errors.Is(err, domain.ErrAlreadyVerified):
			fail(c, http.StatusBadRequest, "Account already verified")
		case errors.Is(err, domain.ErrOTPResendThrottled):
			fail(c, http.StatusTooManyRequests, "Please wait before requesting a new OTP")
		case errors.Is(err, domain.ErrEmailDelivery):
			fail(c, http.StatusInternalServerError, "Email could not be sent")
		default:
			fail(c, http.StatusInternalServerError, "Failed to resend OTP")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": "OTP sent"})
}

// ForgotPassword handles the start of the reset flow
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			fail(c, http.StatusNotFound, "No account with that email")
		case errors.Is(err, domain.ErrEmailDelivery):
			fail(c, http.StatusInternalServerError, "Email could not be sent")
		default:
			fail(c, http.StatusInternalServerError, "Failed to process request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": "Email sent"})
}

// ResetPassword handles the completion of the reset flow
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authSvc.ResetPassword(c.Request.Context(), c.Param("resettoken"), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrResetTokenInvalidOrExpired):
			fail(c, http.StatusBadRequest, "Invalid token")
		default:
			fail(c, http.StatusInternalServerError, "Failed to reset password")
		}
		return
	}

	h.sendTokenResponse(c, result)
}

// Me handles getting the authenticated account (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	accountID, exists := c.Get("account_id")
	if !exists {
		fail(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	account, err := h.authSvc.GetAccount(c.Request.Context(), accountID.(string))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			fail(c, http.StatusNotFound, "Account not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to load account")
		return
	}

	// Password and secret digests never leave the service
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":          account.ID,
			"name":        account.Name,
			"email":       account.Email,
			"is_verified": account.IsVerified,
			"created_at":  account.CreatedAt,
			"updated_at":  account.UpdatedAt,
		},
	})
}
