package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/booknest/library-api/internal/domain/entity"
	repo "github.com/booknest/library-api/internal/domain/repository"
	"github.com/booknest/library-api/pkg/helpers"
)

// BookService manages the catalog. Elasticsearch and GCS are optional;
// with either unset the corresponding feature degrades to a no-op.
type BookService struct {
	Books        repo.BookRepository
	Categories   repo.CategoryRepository
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESBooksIndex string
	Logger       *logrus.Logger
}

// AddInput carries the new book payload.
type AddInput struct {
	ISBN       string
	Title      string
	ImageURL   string
	Author     string
	Edition    string
	Year       int
	CategoryID *int64
}

// Add registers a book. New books start available.
func (s *BookService) Add(ctx context.Context, in AddInput) (*entity.Book, error) {
	if in.ISBN == "" || in.Title == "" || in.Author == "" {
		return nil, validationErr("isbn, title and author are required")
	}
	if in.CategoryID != nil {
		category, err := s.Categories.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}

	book := &entity.Book{
		ISBN:       in.ISBN,
		Title:      in.Title,
		ImageURL:   in.ImageURL,
		Author:     in.Author,
		Edition:    in.Edition,
		Year:       in.Year,
		Available:  true,
		CategoryID: in.CategoryID,
	}
	if err := s.Books.Create(ctx, book); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return nil, ErrBookExists
		}
		return nil, err
	}
	s.indexBook(ctx, book)
	return book, nil
}

// BookPatch is a patch: nil fields are left untouched.
type BookPatch struct {
	Title      *string
	ImageURL   *string
	Author     *string
	Edition    *string
	Year       *int
	CategoryID *int64
}

func (s *BookService) Update(ctx context.Context, isbn string, in BookPatch) (*entity.Book, error) {
	book, err := s.Books.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.ImageURL != nil {
		book.ImageURL = *in.ImageURL
	}
	if in.Author != nil {
		book.Author = *in.Author
	}
	if in.Edition != nil {
		book.Edition = *in.Edition
	}
	if in.Year != nil {
		book.Year = *in.Year
	}
	if in.CategoryID != nil {
		category, err := s.Categories.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		book.CategoryID = in.CategoryID
	}
	if err := s.Books.Update(ctx, book); err != nil {
		return nil, err
	}
	s.indexBook(ctx, book)
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, isbn string) error {
	ok, err := s.Books.Delete(ctx, isbn)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookNotFound
	}
	s.deleteIndex(ctx, isbn)
	return nil
}

func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	book, err := s.Books.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// FindAvailable lists the books currently open for reservation.
func (s *BookService) FindAvailable(ctx context.Context) ([]*entity.Book, error) {
	return s.Books.FindAllAvailable(ctx)
}

// Find filters the catalog by the given criteria. Empty criteria list
// everything.
func (s *BookService) Find(ctx context.Context, criteria repo.BookCriteria) ([]*entity.Book, error) {
	return s.Books.FindByCriteria(ctx, criteria)
}

// ToggleAvailability flips the availability flag and returns the book with
// its new state.
func (s *BookService) ToggleAvailability(ctx context.Context, isbn string) (*entity.Book, error) {
	ok, err := s.Books.ToggleAvailability(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBookNotFound
	}
	book, err := s.Books.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	s.indexBook(ctx, book)
	return book, nil
}

// ListCategories returns the category reference data.
func (s *BookService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return s.Categories.List(ctx)
}

func (s *BookService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// UploadCover stores a cover image in GCS and updates the book's image URL.
func (s *BookService) UploadCover(ctx context.Context, isbn string, r io.Reader, filename, contentType string) (string, error) {
	book, err := s.Books.GetByISBN(ctx, isbn)
	if err != nil {
		return "", err
	}
	if book == nil {
		return "", ErrBookNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("covers", isbn, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	book.ImageURL = url
	if err := s.Books.Update(ctx, book); err != nil {
		return "", err
	}
	s.indexBook(ctx, book)
	return url, nil
}

func (s *BookService) indexBook(ctx context.Context, book *entity.Book) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return
	}
	doc := map[string]any{
		"isbn":      book.ISBN,
		"title":     book.Title,
		"author":    book.Author,
		"edition":   book.Edition,
		"year":      book.Year,
		"available": book.Available,
		"image_url": book.ImageURL,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESBooksIndex, DocumentID: book.ISBN, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("isbn", book.ISBN).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("isbn", book.ISBN).Warn("es index response error")
	}
}

func (s *BookService) deleteIndex(ctx context.Context, isbn string) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESBooksIndex, DocumentID: isbn}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("isbn", isbn).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over title, author and isbn.
func (s *BookService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESBooksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "author", "isbn"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESBooksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
