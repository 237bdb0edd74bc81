package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booknest/library-api/internal/container"
	handlers "github.com/booknest/library-api/internal/interface/http"
	"github.com/booknest/library-api/internal/interface/middleware"
	"github.com/booknest/library-api/pkg/helpers"
)

// AccountModule wires registration, email verification and password flows.
// Public: POST /api/accounts, /api/accounts/verify, /api/accounts/reset,
// /api/accounts/reset/token. The rest requires an authenticated session.
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.POST("/accounts", registerLimiter, m.Handler.Register)
	rg.POST("/accounts/verify", verifyLimiter, m.Handler.VerifyEmail)
	rg.POST("/accounts/reset", resetLimiter, m.Handler.ResetPassword)
	rg.POST("/accounts/reset/token", verifyLimiter, m.Handler.ResetPasswordWithToken)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/accounts/password", m.Handler.ChangePassword)
		auth.GET("/accounts/:id", m.Handler.GetByID)
		auth.GET("/accounts", m.Handler.GetByEmail)
		auth.PUT("/accounts/:id", m.Handler.Update)
		auth.DELETE("/accounts/:id", m.Handler.Delete)
	}
}
