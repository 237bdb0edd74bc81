package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booknest/library-api/internal/container"
	handlers "github.com/booknest/library-api/internal/interface/http"
	"github.com/booknest/library-api/internal/interface/middleware"
	"github.com/booknest/library-api/pkg/helpers"
)

// BookModule wires the catalog routes. Reads are public, writes require an
// authenticated session.
type BookModule struct {
	Handler *handlers.BookHandler
	JWT     *helpers.JWTManager
}

func NewBookModule(h *handlers.BookHandler, jwt *helpers.JWTManager) *BookModule {
	return &BookModule{Handler: h, JWT: jwt}
}

func (m *BookModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/books", readLimiter, m.Handler.Find)
	rg.GET("/books/search", readLimiter, m.Handler.Search)
	rg.GET("/books/:isbn", readLimiter, m.Handler.GetByISBN)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/books", m.Handler.Add)
		auth.PUT("/books/:isbn", m.Handler.Update)
		auth.DELETE("/books/:isbn", m.Handler.Delete)
		auth.PATCH("/books/:isbn", m.Handler.ToggleAvailability)
		auth.POST("/books/:isbn/cover", m.Handler.UploadCover)
	}
}
