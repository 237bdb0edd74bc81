package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknest/library-api/internal/domain/entity"
)

type reservationFixture struct {
	svc          *ReservationService
	accounts     *fakeAccountRepo
	users        *fakeUserRepo
	books        *fakeBookRepo
	reservations *fakeReservationRepo
	notifier     *fakeNotifier

	now     time.Time
	user    *entity.User
	account *entity.Account
	book    *entity.Book
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()
	ctx := context.Background()

	books := newFakeBookRepo()
	f := &reservationFixture{
		accounts:     newFakeAccountRepo(),
		users:        newFakeUserRepo(),
		books:        books,
		reservations: newFakeReservationRepo(books),
		notifier:     &fakeNotifier{},
		now:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	f.account = &entity.Account{Login: "jdoe", Email: "jdoe@example.com", Verified: true}
	require.NoError(t, f.accounts.Create(ctx, f.account))
	f.user = &entity.User{Name: "John", Surname: "Doe", AccountID: f.account.ID}
	require.NoError(t, f.users.Create(ctx, f.user))
	f.book = &entity.Book{ISBN: "9780134190440", Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Available: true}
	require.NoError(t, f.books.Create(ctx, f.book))

	f.svc = &ReservationService{
		Reservations: f.reservations,
		Users:        f.users,
		Accounts:     f.accounts,
		Books:        f.books,
		Notifier:     f.notifier,
		Now:          func() time.Time { return f.now },
	}
	return f
}

func TestReserve(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)

	res, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, f.now.AddDate(0, 3, 0), res.ReservedDate)
	assert.False(t, res.Extended)

	stored, _ := f.books.GetByISBN(ctx, f.book.ISBN)
	assert.False(t, stored.Available)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "reservation_created", f.notifier.sent[0].Kind)
	assert.Equal(t, f.account.Email, f.notifier.sent[0].To)
}

func TestReservePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		f := newReservationFixture(t)
		_, err := f.svc.Reserve(ctx, f.book.ISBN, 999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unverified account", func(t *testing.T) {
		f := newReservationFixture(t)
		f.account.Verified = false
		_, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
		assert.ErrorIs(t, err, ErrUnverified)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("unknown book", func(t *testing.T) {
		f := newReservationFixture(t)
		_, err := f.svc.Reserve(ctx, "0000000000000", f.user.ID)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("already reserved", func(t *testing.T) {
		f := newReservationFixture(t)
		_, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
		require.NoError(t, err)
		_, err = f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
		assert.ErrorIs(t, err, ErrAlreadyReserved)
	})

	t.Run("per-user limit", func(t *testing.T) {
		f := newReservationFixture(t)
		for i := 0; i < 5; i++ {
			b := &entity.Book{ISBN: fmt.Sprintf("isbn-%d", i), Title: "t", Author: "a", Available: true}
			require.NoError(t, f.books.Create(ctx, b))
			_, err := f.svc.Reserve(ctx, b.ISBN, f.user.ID)
			require.NoError(t, err)
		}
		_, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
		assert.ErrorIs(t, err, ErrLimitReached)
	})
}

func TestExtend(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)

	res, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	require.NoError(t, err)
	originalDate := res.ReservedDate
	f.notifier.sent = nil

	// The clock moving forward must not affect the extension base date.
	f.now = f.now.Add(30 * 24 * time.Hour)

	extended, err := f.svc.ExtendByISBN(ctx, f.book.ISBN)
	require.NoError(t, err)
	assert.Equal(t, originalDate.AddDate(0, 3, 0), extended.ReservedDate)
	assert.True(t, extended.Extended)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "reservation_extended", f.notifier.sent[0].Kind)

	_, err = f.svc.ExtendByISBN(ctx, f.book.ISBN)
	assert.ErrorIs(t, err, ErrAlreadyExtended)
}

func TestExtendUnknownReservation(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)

	_, err := f.svc.ExtendByISBN(ctx, f.book.ISBN)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)

	res, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	require.NoError(t, err)
	f.notifier.sent = nil

	require.NoError(t, f.svc.Cancel(ctx, res.ID))

	stored, _ := f.books.GetByISBN(ctx, f.book.ISBN)
	assert.True(t, stored.Available)

	active, err := f.svc.GetByBook(ctx, f.book.ISBN)
	require.NoError(t, err)
	assert.Nil(t, active)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "reservation_cancelled", f.notifier.sent[0].Kind)

	assert.ErrorIs(t, f.svc.Cancel(ctx, res.ID), ErrReservationNotFound)
}

func TestCancelThenReserveAgain(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)

	res, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, res.ID))

	again, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, res.ID, again.ID)
	assert.False(t, again.Extended)
}

func TestGetByUser(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)

	_, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	require.NoError(t, err)

	list, err := f.svc.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := f.svc.GetByUser(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFailedReserveLeavesBookAvailable(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)
	f.account.Verified = false

	_, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	assert.ErrorIs(t, err, ErrUnverified)

	stored, _ := f.books.GetByISBN(ctx, f.book.ISBN)
	assert.True(t, stored.Available)
	active, err := f.reservations.GetActiveByISBN(ctx, f.book.ISBN)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestNotifierFailureDoesNotFailReserve(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(t)
	f.notifier.fail = true

	res, err := f.svc.Reserve(ctx, f.book.ISBN, f.user.ID)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
}
