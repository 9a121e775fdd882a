package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/internal/domain/repository"
	"github.com/robyajo/api-conatct/pkg/helpers"
	"github.com/robyajo/api-conatct/pkg/mailer"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const sessionTTL = 24 * time.Hour

// AuthService is the auth gateway: register, login, session refresh, logout
// and resolving the current authenticated actor.
type AuthService struct {
	Users       repository.UserRepository
	Access      repository.AccessRepository
	JWT         *helpers.JWTManager
	Redis       *redis.Client
	Logger      *logrus.Logger
	Mail        *mailer.Mailgun
	MailEnabled bool
}

func NewAuthService(users repository.UserRepository, access repository.AccessRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, mail *mailer.Mailgun, mailEnabled bool) *AuthService {
	return &AuthService{
		Users:       users,
		Access:      access,
		JWT:         jwt,
		Redis:       rdb,
		Logger:      logger,
		Mail:        mail,
		MailEnabled: mailEnabled,
	}
}

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

// Register creates a self-service account. A registered user has no role row;
// the resolved role falls back to "user".
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*entity.User, error) {
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		UUID:     uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if s.MailEnabled && s.Mail != nil {
		if err := s.Mail.SendWelcome(ctx, u.Email, u.Name); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email failed")
		}
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
// The session hash carries the resolved primary role slug so the admin gate
// can be checked without a database round trip.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		view, err := resolveAccess(ctx, s.Access, u.ID)
		if err != nil {
			return TokenPair{}, err
		}
		fields := map[string]any{
			"user_id":    strconv.FormatInt(u.ID, 10),
			"email":      u.Email,
			"name":       u.Name,
			"role":       view.Role,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name}, pair, nil
}

// Refresh validates a refresh token against the current session, then rotates
// the session id and both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Logout drops the server-side session.
func (s *AuthService) Logout(ctx context.Context, userID int64) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	}
}

// CurrentUser resolves the authenticated actor with its access view.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*entity.User, AccessView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, AccessView{}, ErrUserNotFound
		}
		return nil, AccessView{}, err
	}
	view, err := resolveAccess(ctx, s.Access, u.ID)
	if err != nil {
		return nil, AccessView{}, err
	}
	return u, view, nil
}
