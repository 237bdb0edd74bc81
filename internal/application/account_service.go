package application

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/booknest/library-api/internal/domain/entity"
	repo "github.com/booknest/library-api/internal/domain/repository"
	"github.com/booknest/library-api/pkg/helpers"
	"github.com/booknest/library-api/pkg/mailer"
)

const (
	verifyCodeTTL = 15 * time.Minute
	resetTokenTTL = time.Hour

	passwordLength = 6
)

var (
	emailRx     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	telephoneRx = regexp.MustCompile(`^\d{10}$`)
)

// AccountService owns the account and token lifecycles: registration,
// email verification, password reset and the plain account CRUD.
type AccountService struct {
	Accounts repo.AccountRepository
	Tokens   repo.TokenRepository
	Notifier Notifier
	Logger   *logrus.Logger

	// ResetURL is the front-end page a reset token gets appended to.
	ResetURL string

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Login           string
	Email           string
	Password        string
	ConfirmPassword string
	Mobile          string
	Telephone       string
}

// Register validates the payload (first failing check wins, in a fixed
// order), persists an unverified account, issues a verification code and
// sends the verification notification.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	if existing, err := s.Accounts.GetByLogin(ctx, in.Login); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrLoginTaken
	}
	if existing, err := s.Accounts.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if !emailRx.MatchString(in.Email) {
		return nil, validationErr("email address not valid")
	}
	if len(in.Password) != passwordLength {
		return nil, validationErr("password must be exactly 6 characters long")
	}
	if in.Password != in.ConfirmPassword {
		return nil, validationErr("password does not match confirm password")
	}
	if !telephoneRx.MatchString(in.Telephone) {
		return nil, validationErr("telephone number must be 10 digits")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	account := &entity.Account{
		Login:        in.Login,
		Email:        in.Email,
		PasswordHash: hash,
		Verified:     false,
		Telephone:    in.Telephone,
		Mobile:       in.Mobile,
	}
	if err := s.Accounts.Create(ctx, account); err != nil {
		// The unique indexes are the real enforcement point for the racy
		// read-then-write checks above.
		if errors.Is(err, repo.ErrUniqueViolation) {
			if existing, _ := s.Accounts.GetByLogin(ctx, in.Login); existing != nil {
				return nil, ErrLoginTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := s.issueToken(ctx, account.ID, entity.TokenTypeVerifyEmail, verifyCodeTTL)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.Send(ctx, mailer.KindVerifyEmail, account.Email, map[string]any{
			"Login":          account.Login,
			"Code":           token.Code,
			"ExpiresMinutes": int(verifyCodeTTL.Minutes()),
		})
	}

	return account, nil
}

// issueToken creates a fresh token of the given type, invalidating any
// unconsumed token of the same type first.
func (s *AccountService) issueToken(ctx context.Context, accountID int64, tokenType string, ttl time.Duration) (*entity.AccountToken, error) {
	token := &entity.AccountToken{
		AccountID: accountID,
		Type:      tokenType,
		ExpiresAt: s.now().Add(ttl),
	}
	var err error
	switch tokenType {
	case entity.TokenTypeVerifyEmail:
		token.Code, err = helpers.GenVerificationCode()
	case entity.TokenTypeResetPassword:
		token.Token, err = helpers.GenResetToken()
	}
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.DeleteByAccountAndType(ctx, accountID, tokenType); err != nil {
		return nil, err
	}
	if err := s.Tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// VerifyEmail transitions an account to verified when the submitted code
// matches its pending verification token, and consumes the token. Once
// consumed, repeated calls fail with ErrTokenNotFound.
func (s *AccountService) VerifyEmail(ctx context.Context, email, code string) error {
	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	token, err := s.Tokens.GetByAccountAndType(ctx, account.ID, entity.TokenTypeVerifyEmail)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrTokenNotFound
	}
	if token.Expired(s.now()) {
		return ErrInvalidOrExpiredToken
	}
	if token.Code != code {
		return ErrInvalidCode
	}

	account.Verified = true
	if err := s.Accounts.Update(ctx, account); err != nil {
		return err
	}
	if _, err := s.Tokens.Delete(ctx, token.ID); err != nil {
		return err
	}
	return nil
}

// ResetPassword issues a reset token and mails a reset link. Any previously
// issued, unconsumed reset token is invalidated.
func (s *AccountService) ResetPassword(ctx context.Context, email string) error {
	if !emailRx.MatchString(email) {
		return validationErr("email address not valid")
	}
	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	token, err := s.issueToken(ctx, account.ID, entity.TokenTypeResetPassword, resetTokenTTL)
	if err != nil {
		return err
	}

	if s.Notifier != nil {
		s.Notifier.Send(ctx, mailer.KindResetPassword, account.Email, map[string]any{
			"Login":          account.Login,
			"ResetLink":      s.ResetURL + "?token=" + token.Token,
			"ExpiresMinutes": int(resetTokenTTL.Minutes()),
		})
	}
	return nil
}

// ResetPasswordWithToken sets a new password in exchange for a valid reset
// token and consumes the token.
func (s *AccountService) ResetPasswordWithToken(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.Tokens.GetByToken(ctx, tokenStr, entity.TokenTypeResetPassword)
	if err != nil {
		return err
	}
	if token == nil || token.Expired(s.now()) {
		return ErrInvalidOrExpiredToken
	}

	account, err := s.Accounts.GetByID(ctx, token.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	if len(newPassword) != passwordLength {
		return validationErr("password must be exactly 6 characters long")
	}
	if helpers.CompareHashAndPassword(account.PasswordHash, newPassword) {
		return ErrSamePassword
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	if err := s.Accounts.Update(ctx, account); err != nil {
		return err
	}
	if _, err := s.Tokens.Delete(ctx, token.ID); err != nil {
		return err
	}
	return nil
}

// ChangePassword verifies the old password and replaces it.
func (s *AccountService) ChangePassword(ctx context.Context, accountID int64, oldPassword, newPassword string) error {
	account, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if !helpers.CompareHashAndPassword(account.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) != passwordLength {
		return validationErr("password must be exactly 6 characters long")
	}
	if helpers.CompareHashAndPassword(account.PasswordHash, newPassword) {
		return ErrSamePassword
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return s.Accounts.Update(ctx, account)
}

func (s *AccountService) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	account, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) GetByLogin(ctx context.Context, login string) (*entity.Account, error) {
	account, err := s.Accounts.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// AccountPatch carries optional account fields; nil means keep the current
// value. Login and password are immutable here, the password flows own
// those changes.
type AccountPatch struct {
	Email     *string
	Telephone *string
	Mobile    *string
}

// Update applies a partial update to the account's contact fields.
func (s *AccountService) Update(ctx context.Context, id int64, patch AccountPatch) (*entity.Account, error) {
	account, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if patch.Email != nil && *patch.Email != account.Email {
		if !emailRx.MatchString(*patch.Email) {
			return nil, validationErr("email address not valid")
		}
		if existing, err := s.Accounts.GetByEmail(ctx, *patch.Email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, ErrEmailTaken
		}
		account.Email = *patch.Email
	}
	if patch.Telephone != nil {
		if !telephoneRx.MatchString(*patch.Telephone) {
			return nil, validationErr("telephone number must be 10 digits")
		}
		account.Telephone = *patch.Telephone
	}
	if patch.Mobile != nil {
		account.Mobile = *patch.Mobile
	}

	if err := s.Accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id int64) error {
	ok, err := s.Accounts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}

// SweepExpiredTokens removes tokens past their expiry. Expiry is also
// checked at verification time; the sweep only keeps the table small.
func (s *AccountService) SweepExpiredTokens(ctx context.Context) {
	n, err := s.Tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("expired token sweep failed")
		}
		return
	}
	if n > 0 && s.Logger != nil {
		s.Logger.WithField("count", n).Info("swept expired account tokens")
	}
}
