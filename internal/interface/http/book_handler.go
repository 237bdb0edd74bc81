package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/booknest/library-api/internal/application"
	"github.com/booknest/library-api/internal/domain/entity"
	repo "github.com/booknest/library-api/internal/domain/repository"
	"github.com/booknest/library-api/pkg/response"
	"github.com/booknest/library-api/pkg/validation"
)

const maxCoverSize = 5 << 20 // 5 MiB

type BookHandler struct {
	Svc    *app.BookService
	Logger *logrus.Logger
}

func NewBookHandler(svc *app.BookService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{Svc: svc, Logger: logger}
}

type addBookRequest struct {
	ISBN       string `json:"isbn" binding:"required"`
	Title      string `json:"title" binding:"required"`
	ImageURL   string `json:"image_url"`
	Author     string `json:"author" binding:"required"`
	Edition    string `json:"edition"`
	Year       int    `json:"year"`
	CategoryID *int64 `json:"category_id"`
}

type updateBookRequest struct {
	Title      *string `json:"title"`
	ImageURL   *string `json:"image_url"`
	Author     *string `json:"author"`
	Edition    *string `json:"edition"`
	Year       *int    `json:"year"`
	CategoryID *int64  `json:"category_id"`
}

func bookView(b *entity.Book) gin.H {
	return gin.H{
		"isbn":        b.ISBN,
		"title":       b.Title,
		"image_url":   b.ImageURL,
		"author":      b.Author,
		"edition":     b.Edition,
		"year":        b.Year,
		"available":   b.Available,
		"category_id": b.CategoryID,
		"created_at":  b.CreatedAt,
		"updated_at":  b.UpdatedAt,
	}
}

func bookViews(books []*entity.Book) []gin.H {
	out := make([]gin.H, 0, len(books))
	for _, b := range books {
		out = append(out, bookView(b))
	}
	return out
}

func (h *BookHandler) Add(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	book, err := h.Svc.Add(c.Request.Context(), app.AddInput{
		ISBN:       req.ISBN,
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		Author:     req.Author,
		Edition:    req.Edition,
		Year:       req.Year,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, bookView(book))
}

func (h *BookHandler) Update(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	book, err := h.Svc.Update(c.Request.Context(), c.Param("isbn"), app.BookPatch{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		Author:     req.Author,
		Edition:    req.Edition,
		Year:       req.Year,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookView(book))
}

func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("isbn")); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *BookHandler) GetByISBN(c *gin.Context) {
	book, err := h.Svc.GetByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookView(book))
}

// Find lists books, filtered by the optional isbn, title, author and
// category_id query parameters. With available=true only open books return.
func (h *BookHandler) Find(c *gin.Context) {
	if c.Query("available") == "true" {
		books, err := h.Svc.FindAvailable(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, http.StatusOK, bookViews(books))
		return
	}

	criteria := repo.BookCriteria{
		ISBN:   c.Query("isbn"),
		Title:  c.Query("title"),
		Author: c.Query("author"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid category id")
			return
		}
		criteria.CategoryID = id
	}
	books, err := h.Svc.Find(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookViews(books))
}

func (h *BookHandler) ToggleAvailability(c *gin.Context) {
	book, err := h.Svc.ToggleAvailability(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookView(book))
}

func (h *BookHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "q query parameter required")
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "search failed")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"results": hits})
}

func (h *BookHandler) UploadCover(c *gin.Context) {
	file, err := c.FormFile("cover")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cover file required")
		return
	}
	if file.Size > maxCoverSize {
		response.Error(c, http.StatusBadRequest, "cover file too large")
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cannot read cover file")
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadCover(c.Request.Context(), c.Param("isbn"), src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"image_url": url})
}
