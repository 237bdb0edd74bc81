package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/booknest/library-api/internal/application"
	"github.com/booknest/library-api/internal/domain/entity"
	"github.com/booknest/library-api/pkg/helpers"
	"github.com/booknest/library-api/pkg/response"
	"github.com/booknest/library-api/pkg/validation"
)

type UserHandler struct {
	Svc     *app.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *app.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type createUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Surname      string `json:"surname" binding:"required"`
	AddressLine1 string `json:"address_line_1" binding:"required"`
	AddressLine2 string `json:"address_line_2"`
	AddressLine3 string `json:"address_line_3"`
	City         string `json:"city" binding:"required"`
	Email        string `json:"email" binding:"required"`
}

type updateUserRequest struct {
	Name         *string `json:"name"`
	Surname      *string `json:"surname"`
	AddressLine1 *string `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2"`
	AddressLine3 *string `json:"address_line_3"`
	City         *string `json:"city"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"name":           u.Name,
		"surname":        u.Surname,
		"address_line_1": u.AddressLine1,
		"address_line_2": u.AddressLine2,
		"address_line_3": u.AddressLine3,
		"city":           u.City,
		"account_id":     u.AccountID,
		"created_at":     u.CreatedAt,
		"updated_at":     u.UpdatedAt,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Svc.Create(c.Request.Context(), app.CreateInput{
		Name:         req.Name,
		Surname:      req.Surname,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		AddressLine3: req.AddressLine3,
		City:         req.City,
		AccountEmail: req.Email,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, userView(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Svc.Update(c.Request.Context(), id, app.UpdateInput{
		Name:         req.Name,
		Surname:      req.Surname,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		AddressLine3: req.AddressLine3,
		City:         req.City,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, userView(user))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, pair, err := h.Svc.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.JSON(c, http.StatusOK, gin.H{
		"user":               userView(user),
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token")
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.JSON(c, http.StatusOK, gin.H{
		"refreshed":          true,
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if uid := c.GetInt64("userID"); uid != 0 {
		if err := h.Svc.Logout(c.Request.Context(), uid); err != nil && h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Warn("session delete failed")
		}
	}
	h.Cookies.Clear(c)
	response.JSON(c, http.StatusOK, gin.H{"logged_out": true})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, userView(user))
}

func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetInt64("userID")
	user, err := h.Svc.GetByID(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, userView(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
