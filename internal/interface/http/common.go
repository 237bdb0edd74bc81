package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/booknest/library-api/internal/application"
	"github.com/booknest/library-api/pkg/response"
)

// writeError maps service failures onto HTTP statuses. Unknown errors are
// reported as 500 without leaking their message.
func writeError(c *gin.Context, err error) {
	var ve *app.ValidationError
	if errors.As(err, &ve) {
		response.Error(c, http.StatusBadRequest, ve.Msg)
		return
	}

	switch {
	case errors.Is(err, app.ErrAccountNotFound),
		errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrBookNotFound),
		errors.Is(err, app.ErrReservationNotFound),
		errors.Is(err, app.ErrCategoryNotFound),
		errors.Is(err, app.ErrTokenNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrLoginTaken),
		errors.Is(err, app.ErrEmailTaken),
		errors.Is(err, app.ErrUserExists),
		errors.Is(err, app.ErrBookExists),
		errors.Is(err, app.ErrAlreadyReserved),
		errors.Is(err, app.ErrAlreadyExtended),
		errors.Is(err, app.ErrLimitReached),
		errors.Is(err, app.ErrSamePassword):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrInvalidCode),
		errors.Is(err, app.ErrInvalidOrExpiredToken):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrUnverified):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrDeletionFailed):
		response.Error(c, http.StatusInternalServerError, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}
