package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandlerTestRouter(authSvc domain.AuthService) (*gin.Engine, *AuthHandlers) {
	h := NewAuthHandlers(authSvc, 24*time.Hour)
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/verify-otp", h.VerifyOTP)
	r.POST("/resend-otp", h.ResendOTP)
	r.POST("/forgotpassword", h.ForgotPassword)
	r.PUT("/resetpassword/:resettoken", h.ResetPassword)
	r.GET("/me", func(c *gin.Context) {
		c.Set("account_id", "acc-1")
		h.Me(c)
	})
	return r, h
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func TestAuthHandlers_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*mocks.MockAuthService)
		wantStatus int
	}{
		{
			name:       "successful registration",
			body:       `{"name":"Ann","email":"ann@example.com","password":"Secret123"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing name rejected at binding",
			body:       `{"email":"ann@example.com","password":"Secret123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed email rejected at binding",
			body:       `{"name":"Ann","email":"not-an-email","password":"Secret123"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: `{"name":"Ann","email":"ann@example.com","password":"Secret123"}`,
			setupMock: func(m *mocks.MockAuthService) {
				m.RegisterFunc = func(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrAccountExists
				}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "email delivery failure",
			body: `{"name":"Ann","email":"ann@example.com","password":"Secret123"}`,
			setupMock: func(m *mocks.MockAuthService) {
				m.RegisterFunc = func(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrEmailDelivery
				}
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "repeat attempt inside the resend window",
			body: `{"name":"Ann","email":"ann@example.com","password":"Secret123"}`,
			setupMock: func(m *mocks.MockAuthService) {
				m.RegisterFunc = func(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrOTPResendThrottled
				}
			},
			wantStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			if tt.setupMock != nil {
				tt.setupMock(authSvc)
			}
			r, _ := newHandlerTestRouter(authSvc)

			w := doJSON(t, r, http.MethodPost, "/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_Register_SetsTokenAndCookie(t *testing.T) {
	r, _ := newHandlerTestRouter(mocks.NewMockAuthService())

	w := doJSON(t, r, http.MethodPost, "/register", `{"name":"Ann","email":"ann@example.com","password":"Secret123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("expected success=true")
	}
	if body["token"] != "token_acc-1" {
		t.Errorf("token = %v, want token_acc-1", body["token"])
	}

	cookies := w.Result().Cookies()
	var tokenCookie *http.Cookie
	for _, ck := range cookies {
		if ck.Name == "token" {
			tokenCookie = ck
		}
	}
	if tokenCookie == nil {
		t.Fatal("expected a token cookie")
	}
	if tokenCookie.Value != "token_acc-1" {
		t.Errorf("cookie token = %q, want token_acc-1", tokenCookie.Value)
	}
	if !tokenCookie.HttpOnly {
		t.Error("token cookie must be http-only")
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*mocks.MockAuthService)
		wantStatus int
		wantError  string
	}{
		{
			name:       "successful login",
			body:       `{"email":"ann@example.com","password":"Secret123"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing password",
			body:       `{"email":"ann@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please provide email and password",
		},
		{
			name: "wrong credentials",
			body: `{"email":"ann@example.com","password":"wrong"}`,
			setupMock: func(m *mocks.MockAuthService) {
				m.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrInvalidCredentials
				}
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name: "unverified account",
			body: `{"email":"ann@example.com","password":"Secret123"}`,
			setupMock: func(m *mocks.MockAuthService) {
				m.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return nil, domain.ErrNotVerified
				}
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Please verify your email first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			if tt.setupMock != nil {
				tt.setupMock(authSvc)
			}
			r, _ := newHandlerTestRouter(authSvc)

			w := doJSON(t, r, http.MethodPost, "/login", tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantError != "" {
				body := decodeBody(t, w)
				if body["error"] != tt.wantError {
					t.Errorf("error = %v, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

func TestAuthHandlers_VerifyOTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*mocks.MockAuthService)
		wantStatus int
	}{
		{
			name:       "valid code logs the account in",
			body:       `{"email":"ann@example.com","otp":"482913"}`,
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong or expired code",
			body: `{"email":"ann@example.com","otp":"000000"}`,
			setupMock: func(m *mocks.MockAuthService) {
				m.VerifyOTPFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
					return nil, domain.ErrOTPInvalidOrExpired
				}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing otp rejected at binding",
			body:       `{"email":"ann@example.com"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			if tt.setupMock != nil {
				tt.setupMock(authSvc)
			}
			r, _ := newHandlerTestRouter(authSvc)

			w := doJSON(t, r, http.MethodPost, "/verify-otp", tt.body)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_ResendOTP(t *testing.T) {
	tests := []struct {
		name       string
		mockErr    error
		wantStatus int
	}{
		{name: "resent", mockErr: nil, wantStatus: http.StatusOK},
		{name: "unknown email", mockErr: domain.ErrAccountNotFound, wantStatus: http.StatusNotFound},
		{name: "already verified", mockErr: domain.ErrAlreadyVerified, wantStatus: http.StatusBadRequest},
		{name: "throttled", mockErr: domain.ErrOTPResendThrottled, wantStatus: http.StatusTooManyRequests},
		{name: "delivery failed", mockErr: domain.ErrEmailDelivery, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.ResendOTPFunc = func(ctx context.Context, email string) error {
				return tt.mockErr
			}
			r, _ := newHandlerTestRouter(authSvc)

			w := doJSON(t, r, http.MethodPost, "/resend-otp", `{"email":"ann@example.com"}`)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_ForgotPassword(t *testing.T) {
	tests := []struct {
		name       string
		mockErr    error
		wantStatus int
		wantData   string
	}{
		{name: "email sent", mockErr: nil, wantStatus: http.StatusOK, wantData: "Email sent"},
		{name: "unknown email", mockErr: domain.ErrAccountNotFound, wantStatus: http.StatusNotFound},
		{name: "delivery failed", mockErr: domain.ErrEmailDelivery, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.ForgotPasswordFunc = func(ctx context.Context, email string) error {
				return tt.mockErr
			}
			r, _ := newHandlerTestRouter(authSvc)

			w := doJSON(t, r, http.MethodPost, "/forgotpassword", `{"email":"ann@example.com"}`)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantData != "" {
				body := decodeBody(t, w)
				if body["data"] != tt.wantData {
					t.Errorf("data = %v, want %q", body["data"], tt.wantData)
				}
			}
		})
	}
}

func TestAuthHandlers_ResetPassword(t *testing.T) {
	t.Run("valid token logs the account in", func(t *testing.T) {
		authSvc := mocks.NewMockAuthService()
		var gotToken string
		authSvc.ResetPasswordFunc = func(ctx context.Context, token, newPassword string) (*domain.AuthResult, error) {
			gotToken = token
			return &domain.AuthResult{
				Account: &domain.Account{ID: "acc-1"},
				Token:   "token_acc-1",
			}, nil
		}
		r, _ := newHandlerTestRouter(authSvc)

		w := doJSON(t, r, http.MethodPut, "/resetpassword/abc123token", `{"password":"NewSecret1"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if gotToken != "abc123token" {
			t.Errorf("handler passed token %q, want path param value", gotToken)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		authSvc := mocks.NewMockAuthService()
		authSvc.ResetPasswordFunc = func(ctx context.Context, token, newPassword string) (*domain.AuthResult, error) {
			return nil, domain.ErrResetTokenInvalidOrExpired
		}
		r, _ := newHandlerTestRouter(authSvc)

		w := doJSON(t, r, http.MethodPut, "/resetpassword/stale", `{"password":"NewSecret1"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("short password rejected at binding", func(t *testing.T) {
		r, _ := newHandlerTestRouter(mocks.NewMockAuthService())

		w := doJSON(t, r, http.MethodPut, "/resetpassword/abc", `{"password":"short"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestAuthHandlers_Me(t *testing.T) {
	t.Run("returns sanitized account", func(t *testing.T) {
		authSvc := mocks.NewMockAuthService()
		hash := "digest"
		authSvc.GetAccountFunc = func(ctx context.Context, accountID string) (*domain.Account, error) {
			return &domain.Account{
				ID:           accountID,
				Name:         "Ann",
				Email:        "ann@example.com",
				PasswordHash: "bcrypt-hash",
				IsVerified:   true,
				OTPHash:      &hash,
			}, nil
		}
		r, _ := newHandlerTestRouter(authSvc)

		w := doJSON(t, r, http.MethodGet, "/me", "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		raw := w.Body.String()
		if strings.Contains(raw, "bcrypt-hash") || strings.Contains(raw, "digest") {
			t.Error("response must not expose password or secret digests")
		}
		body := decodeBody(t, w)
		data := body["data"].(map[string]any)
		if data["email"] != "ann@example.com" || data["is_verified"] != true {
			t.Errorf("unexpected data payload: %v", data)
		}
	})

	t.Run("account vanished", func(t *testing.T) {
		r, _ := newHandlerTestRouter(mocks.NewMockAuthService())

		w := doJSON(t, r, http.MethodGet, "/me", "")

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
