package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booknest/library-api/internal/container"
	handlers "github.com/booknest/library-api/internal/interface/http"
	"github.com/booknest/library-api/internal/interface/middleware"
	"github.com/booknest/library-api/pkg/helpers"
)

// ReservationModule wires the reservation lifecycle. Everything requires an
// authenticated session.
type ReservationModule struct {
	Handler *handlers.ReservationHandler
	JWT     *helpers.JWTManager
}

func NewReservationModule(h *handlers.ReservationHandler, jwt *helpers.JWTManager) *ReservationModule {
	return &ReservationModule{Handler: h, JWT: jwt}
}

func (m *ReservationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/reservation/reserve", m.Handler.Reserve)
		auth.PUT("/reservation/extend", m.Handler.Extend)
		auth.DELETE("/reservation/cancel", m.Handler.Cancel)
		auth.GET("/reservation/book/:isbn", m.Handler.GetByBook)
		auth.GET("/reservation/user/:id", m.Handler.GetByUser)
	}
}
