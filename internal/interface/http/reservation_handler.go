package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/booknest/library-api/internal/application"
	"github.com/booknest/library-api/internal/domain/entity"
	"github.com/booknest/library-api/pkg/response"
	"github.com/booknest/library-api/pkg/validation"
)

type ReservationHandler struct {
	Svc    *app.ReservationService
	Logger *logrus.Logger
}

func NewReservationHandler(svc *app.ReservationService, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Logger: logger}
}

type reserveRequest struct {
	ISBN   string `json:"isbn" binding:"required"`
	UserID int64  `json:"user_id" binding:"required"`
}

func reservationView(r *entity.Reservation) gin.H {
	return gin.H{
		"id":            r.ID,
		"isbn":          r.ISBN,
		"user_id":       r.UserID,
		"reserved_date": r.ReservedDate,
		"extended":      r.Extended,
		"created_at":    r.CreatedAt,
	}
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	reservation, err := h.Svc.Reserve(c.Request.Context(), req.ISBN, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, reservationView(reservation))
}

// Extend resolves the reservation through the ?isbn= query parameter.
func (h *ReservationHandler) Extend(c *gin.Context) {
	isbn := c.Query("isbn")
	if isbn == "" {
		response.Error(c, http.StatusBadRequest, "isbn query parameter required")
		return
	}
	reservation, err := h.Svc.ExtendByISBN(c.Request.Context(), isbn)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservationView(reservation))
}

// Cancel takes the reservation through the ?id= query parameter.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid reservation id")
		return
	}
	if err := h.Svc.Cancel(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"cancelled": true})
}

// GetByBook reports the active reservation for a book; a book with no
// reservation returns an empty object rather than 404.
func (h *ReservationHandler) GetByBook(c *gin.Context) {
	reservation, err := h.Svc.GetByBook(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		writeError(c, err)
		return
	}
	if reservation == nil {
		response.JSON(c, http.StatusOK, gin.H{"reserved": false})
		return
	}
	resp := reservationView(reservation)
	resp["reserved"] = true
	response.JSON(c, http.StatusOK, resp)
}

func (h *ReservationHandler) GetByUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}
	reservations, err := h.Svc.GetByUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, reservationView(r))
	}
	response.JSON(c, http.StatusOK, out)
}
