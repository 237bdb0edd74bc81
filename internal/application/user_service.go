package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/booknest/library-api/internal/domain/entity"
	repo "github.com/booknest/library-api/internal/domain/repository"
	"github.com/booknest/library-api/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

// UserService manages library user profiles and login sessions. Sessions
// are explicit: a successful login mints a JWT pair bound to a session id
// stored in Redis, and logout removes the session record.
type UserService struct {
	Users    repo.UserRepository
	Accounts repo.AccountRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Logger   *logrus.Logger
}

// TokenPair is the result of a login or refresh.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// CreateInput carries the user profile payload.
type CreateInput struct {
	Name         string
	Surname      string
	AddressLine1 string
	AddressLine2 string
	AddressLine3 string
	City         string
	AccountEmail string
}

// Create attaches a user profile to the account registered under the given
// email. One profile per account; a second attempt fails with ErrUserExists.
func (s *UserService) Create(ctx context.Context, in CreateInput) (*entity.User, error) {
	if in.Name == "" || in.Surname == "" || in.AddressLine1 == "" || in.City == "" {
		return nil, validationErr("name, surname, address line 1 and city are required")
	}

	account, err := s.Accounts.GetByEmail(ctx, in.AccountEmail)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if existing, err := s.Users.GetByAccountID(ctx, account.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUserExists
	}

	user := &entity.User{
		Name:         in.Name,
		Surname:      in.Surname,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		AddressLine3: in.AddressLine3,
		City:         in.City,
		AccountID:    account.ID,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// UpdateInput is a patch: nil fields are left untouched.
type UpdateInput struct {
	Name         *string
	Surname      *string
	AddressLine1 *string
	AddressLine2 *string
	AddressLine3 *string
	City         *string
}

func (s *UserService) Update(ctx context.Context, userID int64, in UpdateInput) (*entity.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Surname != nil {
		user.Surname = *in.Surname
	}
	if in.AddressLine1 != nil {
		user.AddressLine1 = *in.AddressLine1
	}
	if in.AddressLine2 != nil {
		user.AddressLine2 = *in.AddressLine2
	}
	if in.AddressLine3 != nil {
		user.AddressLine3 = *in.AddressLine3
	}
	if in.City != nil {
		user.City = *in.City
	}
	if err := s.Users.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(user.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       user.Name,
			"surname":    user.Surname,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return user, nil
}

// Authenticate resolves the credential (login name or email) and checks the
// password. Any failure collapses into ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, credential, password string) (*entity.User, *entity.Account, error) {
	account, err := s.Accounts.GetByLogin(ctx, credential)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		account, err = s.Accounts.GetByEmail(ctx, credential)
		if err != nil {
			return nil, nil, err
		}
	}
	if account == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(account.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}
	user, err := s.Users.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	return user, account, nil
}

// IssueTokens mints a JWT pair under a fresh session id and records the
// session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, user *entity.User, account *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(user.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", user.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(user.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", user.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(user.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    user.ID,
			"account_id": account.ID,
			"email":      account.Email,
			"name":       user.Name,
			"surname":    user.Surname,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Login authenticates and opens a session.
func (s *UserService) Login(ctx context.Context, credential, password string) (*entity.User, TokenPair, error) {
	user, account, err := s.Authenticate(ctx, credential, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, user, account)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh rotates the session id and mints a fresh token pair. The refresh
// token's session id must still match the one recorded in Redis.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, int64, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	user, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || user == nil {
		return TokenPair{}, 0, ErrInvalidCredentials
	}
	if s.Redis != nil {
		key := sessionKey(user.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, 0, ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(user.ID, sid)
	if err != nil {
		return TokenPair{}, 0, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(user.ID, sid)
	if err != nil {
		return TokenPair{}, 0, err
	}
	if s.Redis != nil {
		key := sessionKey(user.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, user.ID, nil
}

// Logout removes the session record; subsequent requests carrying the old
// tokens fail session validation.
func (s *UserService) Logout(ctx context.Context, userID int64) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, sessionKey(userID)).Err()
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetByAccountEmail(ctx context.Context, email string) (*entity.User, error) {
	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	user, err := s.Users.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	ok, err := s.Users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(id)).Err()
	}
	return nil
}
