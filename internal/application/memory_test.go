package application

import (
	"context"
	"strings"
	"time"

	"github.com/booknest/library-api/internal/domain/entity"
	repo "github.com/booknest/library-api/internal/domain/repository"
)

// In-memory repositories backing the service tests. They mirror the
// database contracts: lookups return (nil, nil) on absence and writes that
// break a unique index fail with repo.ErrUniqueViolation.

type fakeAccountRepo struct {
	accounts map[int64]*entity.Account
	nextID   int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[int64]*entity.Account{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, a *entity.Account) error {
	for _, existing := range r.accounts {
		if existing.Login == a.Login || existing.Email == a.Email {
			return repo.ErrUniqueViolation
		}
	}
	r.nextID++
	a.ID = r.nextID
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) GetByLogin(_ context.Context, login string) (*entity.Account, error) {
	for _, a := range r.accounts {
		if a.Login == login {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, a *entity.Account) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.accounts[id]; !ok {
		return false, nil
	}
	delete(r.accounts, id)
	return true, nil
}

type fakeTokenRepo struct {
	tokens map[int64]*entity.AccountToken
	nextID int64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[int64]*entity.AccountToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *entity.AccountToken) error {
	r.nextID++
	t.ID = r.nextID
	r.tokens[t.ID] = t
	return nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token, tokenType string) (*entity.AccountToken, error) {
	for _, t := range r.tokens {
		if t.Token == token && t.Type == tokenType {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) GetByAccountAndType(_ context.Context, accountID int64, tokenType string) (*entity.AccountToken, error) {
	for _, t := range r.tokens {
		if t.AccountID == accountID && t.Type == tokenType {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.tokens[id]; !ok {
		return false, nil
	}
	delete(r.tokens, id)
	return true, nil
}

func (r *fakeTokenRepo) DeleteByAccountAndType(_ context.Context, accountID int64, tokenType string) error {
	for id, t := range r.tokens {
		if t.AccountID == accountID && t.Type == tokenType {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.AccountID == u.AccountID {
			return repo.ErrUniqueViolation
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByAccountID(_ context.Context, accountID int64) (*entity.User, error) {
	for _, u := range r.users {
		if u.AccountID == accountID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

type fakeBookRepo struct {
	books map[string]*entity.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[string]*entity.Book{}}
}

func (r *fakeBookRepo) Create(_ context.Context, b *entity.Book) error {
	if _, ok := r.books[b.ISBN]; ok {
		return repo.ErrUniqueViolation
	}
	r.books[b.ISBN] = b
	return nil
}

func (r *fakeBookRepo) GetByISBN(_ context.Context, isbn string) (*entity.Book, error) {
	return r.books[isbn], nil
}

func (r *fakeBookRepo) Update(_ context.Context, b *entity.Book) error {
	r.books[b.ISBN] = b
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, isbn string) (bool, error) {
	if _, ok := r.books[isbn]; !ok {
		return false, nil
	}
	delete(r.books, isbn)
	return true, nil
}

func (r *fakeBookRepo) FindAllAvailable(_ context.Context) ([]*entity.Book, error) {
	var out []*entity.Book
	for _, b := range r.books {
		if b.Available {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) FindByCriteria(_ context.Context, c repo.BookCriteria) ([]*entity.Book, error) {
	var out []*entity.Book
	for _, b := range r.books {
		if c.ISBN != "" && b.ISBN != c.ISBN {
			continue
		}
		if c.Title != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(c.Title)) {
			continue
		}
		if c.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(c.Author)) {
			continue
		}
		if c.CategoryID != 0 && (b.CategoryID == nil || *b.CategoryID != c.CategoryID) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookRepo) ToggleAvailability(_ context.Context, isbn string) (bool, error) {
	b, ok := r.books[isbn]
	if !ok {
		return false, nil
	}
	b.Available = !b.Available
	return true, nil
}

// fakeReservationRepo holds a reference to the book repo because the real
// repository updates the reservation row and the book's available flag in
// one transaction.
type fakeReservationRepo struct {
	reservations map[int64]*entity.Reservation
	books        *fakeBookRepo
	nextID       int64
}

func newFakeReservationRepo(books *fakeBookRepo) *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[int64]*entity.Reservation{}, books: books}
}

func (r *fakeReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	for _, existing := range r.reservations {
		if existing.ISBN == res.ISBN {
			return repo.ErrUniqueViolation
		}
	}
	r.nextID++
	res.ID = r.nextID
	r.reservations[res.ID] = res
	if b := r.books.books[res.ISBN]; b != nil {
		b.Available = false
	}
	return nil
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id int64) (*entity.Reservation, error) {
	return r.reservations[id], nil
}

func (r *fakeReservationRepo) GetActiveByISBN(_ context.Context, isbn string) (*entity.Reservation, error) {
	for _, res := range r.reservations {
		if res.ISBN == isbn {
			return res, nil
		}
	}
	return nil, nil
}

func (r *fakeReservationRepo) ListByUser(_ context.Context, userID int64) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.reservations {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, res := range r.reservations {
		if res.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeReservationRepo) Update(_ context.Context, res *entity.Reservation) error {
	r.reservations[res.ID] = res
	return nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id int64) (bool, error) {
	res, ok := r.reservations[id]
	if !ok {
		return false, nil
	}
	delete(r.reservations, id)
	if b := r.books.books[res.ISBN]; b != nil {
		b.Available = true
	}
	return true, nil
}

type fakeCategoryRepo struct {
	categories map[int64]*entity.Category
}

func newFakeCategoryRepo(names ...string) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: map[int64]*entity.Category{}}
	for i, name := range names {
		id := int64(i + 1)
		r.categories[id] = &entity.Category{ID: id, Name: name}
	}
	return r
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	return r.categories[id], nil
}

// sentNotification records a Notifier.Send call.
type sentNotification struct {
	Kind string
	To   string
	Data map[string]any
}

type fakeNotifier struct {
	sent []sentNotification
	fail bool
}

func (n *fakeNotifier) Send(_ context.Context, kind, to string, data map[string]any) bool {
	if n.fail {
		return false
	}
	n.sent = append(n.sent, sentNotification{Kind: kind, To: to, Data: data})
	return true
}
