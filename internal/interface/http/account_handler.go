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

type AccountHandler struct {
	Svc    *app.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *app.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Login           string `json:"login" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	MobileNumber    string `json:"mobile_number"`
	TelephoneNumber string `json:"telephone_number" binding:"required"`
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetWithTokenRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type changePasswordRequest struct {
	AccountID   int64  `json:"account_id" binding:"required"`
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd6"`
}

type updateAccountRequest struct {
	Email           *string `json:"email" binding:"omitempty,email"`
	TelephoneNumber *string `json:"telephone_number" binding:"omitempty,phone10"`
	MobileNumber    *string `json:"mobile_number"`
}

func accountView(a *entity.Account) gin.H {
	return gin.H{
		"id":               a.ID,
		"login":            a.Login,
		"email":            a.Email,
		"verified":         a.Verified,
		"mobile_number":    a.Mobile,
		"telephone_number": a.Telephone,
		"created_at":       a.CreatedAt,
		"updated_at":       a.UpdatedAt,
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	account, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Login:           req.Login,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Mobile:          req.MobileNumber,
		Telephone:       req.TelephoneNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, accountView(account))
}

func (h *AccountHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"verified": true})
}

func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"reset_requested": true})
}

func (h *AccountHandler) ResetPasswordWithToken(c *gin.Context) {
	var req resetWithTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPasswordWithToken(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"password_reset": true})
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), req.AccountID, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"password_changed": true})
}

func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid account id")
		return
	}
	account, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accountView(account))
}

func (h *AccountHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error(c, http.StatusBadRequest, "email query parameter required")
		return
	}
	account, err := h.Svc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accountView(account))
}

// Update patches the account's contact fields; absent JSON fields keep
// their current values.
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid account id")
		return
	}
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	account, err := h.Svc.Update(c.Request.Context(), id, app.AccountPatch{
		Email:     req.Email,
		Telephone: req.TelephoneNumber,
		Mobile:    req.MobileNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accountView(account))
}

func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid account id")
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
