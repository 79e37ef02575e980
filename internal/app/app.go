package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/internal/config"
	httpx "github.com/you/accountsvc/internal/http"
	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		// OTP resend throttling degrades to off without Redis
		log.Printf("redis unavailable, resend throttling disabled: %v", err)
	}

	// Initialize handlers
	authH := handlers.NewAuthHandlers(c.AuthSvc, cfg.CookieTTL)

	// Initialize middleware
	jwtMW := middleware.NewAuthMW(c.TokenSvc)

	// Build router
	r := httpx.BuildRouter(authH, jwtMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
