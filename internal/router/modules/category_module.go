package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booknest/library-api/internal/container"
	handlers "github.com/booknest/library-api/internal/interface/http"
	"github.com/booknest/library-api/internal/interface/middleware"
)

// CategoryModule exposes the category reference data, read-only and public.
type CategoryModule struct {
	Handler *handlers.CategoryHandler
}

func NewCategoryModule(h *handlers.CategoryHandler) *CategoryModule {
	return &CategoryModule{Handler: h}
}

func (m *CategoryModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/categories", readLimiter, m.Handler.List)
	rg.GET("/categories/:id", readLimiter, m.Handler.GetByID)
}
