package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	app "github.com/booknest/library-api/internal/application"
	"github.com/booknest/library-api/pkg/response"
)

type CategoryHandler struct {
	Svc *app.BookService
}

func NewCategoryHandler(svc *app.BookService) *CategoryHandler {
	return &CategoryHandler{Svc: svc}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		out = append(out, gin.H{"id": cat.ID, "name": cat.Name})
	}
	response.JSON(c, http.StatusOK, out)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid category id")
		return
	}
	category, err := h.Svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": category.ID, "name": category.Name})
}
