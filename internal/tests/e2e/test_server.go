package e2e

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	httpx "github.com/you/accountsvc/internal/http"
	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
	"github.com/you/accountsvc/internal/infrastructure/auth"
	"github.com/you/accountsvc/internal/infrastructure/repositories"
	"github.com/you/accountsvc/internal/mocks"
	"github.com/you/accountsvc/internal/services"
)

// TestServer wires the full stack against an in-memory database with email
// delivery captured in a mock. No external services are needed.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Mailer *mocks.MockMailerService
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// Every pooled connection to :memory: is its own database; pin the pool
	// to one connection so concurrent requests share state
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&repositories.DBAccount{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	accountRepo := repositories.NewAccountRepository(db)
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService("e2e-test-secret", "accountsvc-test", 15*time.Minute)
	mailer := mocks.NewMockMailerService()

	// Nil Redis client keeps resend throttling out of the way
	secretSvc := services.NewSecretService(nil, services.SecretConfig{
		OTPLength:    6,
		OTPTTL:       10 * time.Minute,
		ResetTTL:     10 * time.Minute,
		ResendWindow: 0,
	})

	authSvc := services.NewAuthService(
		accountRepo,
		passwordSvc,
		tokenSvc,
		secretSvc,
		mailer,
		"http://test.local/api/v1/auth",
		15*time.Minute,
	)

	authH := handlers.NewAuthHandlers(authSvc, 24*time.Hour)
	jwtMW := middleware.NewAuthMW(tokenSvc)
	router := httpx.BuildRouter(authH, jwtMW)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestServer{Server: srv, DB: db, Mailer: mailer}
}
