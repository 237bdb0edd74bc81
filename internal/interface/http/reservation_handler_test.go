package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/booknest/library-api/internal/application"
	"github.com/booknest/library-api/internal/domain/entity"
	repo "github.com/booknest/library-api/internal/domain/repository"
)

type memUsers struct {
	byID map[int64]*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return m.byID[id], nil
}

func (m *memUsers) GetByAccountID(_ context.Context, accountID int64) (*entity.User, error) {
	for _, u := range m.byID {
		if u.AccountID == accountID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

type memBooks struct {
	byISBN map[string]*entity.Book
}

func (m *memBooks) Create(_ context.Context, b *entity.Book) error {
	if _, ok := m.byISBN[b.ISBN]; ok {
		return repo.ErrUniqueViolation
	}
	m.byISBN[b.ISBN] = b
	return nil
}

func (m *memBooks) GetByISBN(_ context.Context, isbn string) (*entity.Book, error) {
	return m.byISBN[isbn], nil
}

func (m *memBooks) Update(_ context.Context, b *entity.Book) error {
	m.byISBN[b.ISBN] = b
	return nil
}

func (m *memBooks) Delete(_ context.Context, isbn string) (bool, error) {
	if _, ok := m.byISBN[isbn]; !ok {
		return false, nil
	}
	delete(m.byISBN, isbn)
	return true, nil
}

func (m *memBooks) FindAllAvailable(_ context.Context) ([]*entity.Book, error) {
	var out []*entity.Book
	for _, b := range m.byISBN {
		if b.Available {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBooks) FindByCriteria(_ context.Context, _ repo.BookCriteria) ([]*entity.Book, error) {
	return nil, nil
}

func (m *memBooks) ToggleAvailability(_ context.Context, isbn string) (bool, error) {
	b, ok := m.byISBN[isbn]
	if !ok {
		return false, nil
	}
	b.Available = !b.Available
	return true, nil
}

// memReservations mirrors the database contract: the reservation row and
// the book's available flag change together.
type memReservations struct {
	byID   map[int64]*entity.Reservation
	books  *memBooks
	nextID int64
}

func (m *memReservations) Create(_ context.Context, res *entity.Reservation) error {
	for _, existing := range m.byID {
		if existing.ISBN == res.ISBN {
			return repo.ErrUniqueViolation
		}
	}
	m.nextID++
	res.ID = m.nextID
	m.byID[res.ID] = res
	if b := m.books.byISBN[res.ISBN]; b != nil {
		b.Available = false
	}
	return nil
}

func (m *memReservations) GetByID(_ context.Context, id int64) (*entity.Reservation, error) {
	return m.byID[id], nil
}

func (m *memReservations) GetActiveByISBN(_ context.Context, isbn string) (*entity.Reservation, error) {
	for _, res := range m.byID {
		if res.ISBN == isbn {
			return res, nil
		}
	}
	return nil, nil
}

func (m *memReservations) ListByUser(_ context.Context, userID int64) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range m.byID {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (m *memReservations) CountByUser(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, res := range m.byID {
		if res.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memReservations) Update(_ context.Context, res *entity.Reservation) error {
	m.byID[res.ID] = res
	return nil
}

func (m *memReservations) Delete(_ context.Context, id int64) (bool, error) {
	res, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	delete(m.byID, id)
	if b := m.books.byISBN[res.ISBN]; b != nil {
		b.Available = true
	}
	return true, nil
}

func newReservationRouter(t *testing.T) (*gin.Engine, *memBooks) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts := &memAccounts{byID: map[int64]*entity.Account{}}
	users := &memUsers{byID: map[int64]*entity.User{}}
	books := &memBooks{byISBN: map[string]*entity.Book{}}
	reservations := &memReservations{byID: map[int64]*entity.Reservation{}, books: books}

	ctx := context.Background()
	account := &entity.Account{Login: "jdoe", Email: "jdoe@example.com", Verified: true}
	require.NoError(t, accounts.Create(ctx, account))
	require.NoError(t, users.Create(ctx, &entity.User{ID: 1, Name: "John", Surname: "Doe", AccountID: account.ID}))
	require.NoError(t, books.Create(ctx, &entity.Book{ISBN: "9780134190440", Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Available: true}))

	svc := &app.ReservationService{
		Reservations: reservations,
		Users:        users,
		Accounts:     accounts,
		Books:        books,
		Now:          func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	h := NewReservationHandler(svc, nil)

	r := gin.New()
	r.POST("/api/reservation/reserve", h.Reserve)
	r.PUT("/api/reservation/extend", h.Extend)
	r.DELETE("/api/reservation/cancel", h.Cancel)
	r.GET("/api/reservation/book/:isbn", h.GetByBook)
	r.GET("/api/reservation/user/:id", h.GetByUser)
	return r, books
}

func doRequest(t *testing.T, r http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReservationEndpoints(t *testing.T) {
	r, books := newReservationRouter(t)

	w := postJSON(t, r, "/api/reservation/reserve", map[string]any{"isbn": "9780134190440", "user_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "9780134190440", created["isbn"])
	assert.Equal(t, false, created["extended"])
	assert.False(t, books.byISBN["9780134190440"].Available)

	t.Run("reserve again conflicts", func(t *testing.T) {
		w := postJSON(t, r, "/api/reservation/reserve", map[string]any{"isbn": "9780134190440", "user_id": 1})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("get by book", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/reservation/book/9780134190440")
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["reserved"])
	})

	t.Run("extend requires isbn", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/reservation/extend")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("extend by isbn", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPut, "/api/reservation/extend?isbn=9780134190440")
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["extended"])

		again := doRequest(t, r, http.MethodPut, "/api/reservation/extend?isbn=9780134190440")
		assert.Equal(t, http.StatusConflict, again.Code)
	})

	t.Run("get by user", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/reservation/user/1")
		require.Equal(t, http.StatusOK, w.Code)
		var resp []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})

	t.Run("cancel requires id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/reservation/cancel")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cancel restores availability", func(t *testing.T) {
		w := doRequest(t, r, http.MethodDelete, "/api/reservation/cancel?id=1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, books.byISBN["9780134190440"].Available)

		missing := doRequest(t, r, http.MethodDelete, "/api/reservation/cancel?id=1")
		assert.Equal(t, http.StatusNotFound, missing.Code)
	})
}
