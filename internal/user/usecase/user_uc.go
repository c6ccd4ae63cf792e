package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/webcarros/backend/internal/user/entity"
	"github.com/webcarros/backend/internal/user/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// Claims is the JWT payload issued on login and checked by the HTTP auth
// middleware.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// UserRepo is the persistence port for accounts and session tokens.
type UserRepo interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	CacheToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetToken(ctx context.Context, userID string) (string, error)
	InvalidateToken(ctx context.Context, userID string) error
}

type UserUsecase struct {
	repo      UserRepo
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewUserUsecase(repo UserRepo, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *UserUsecase {
	return &UserUsecase{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

func (u *UserUsecase) Register(ctx context.Context, name, email, password string) (string, error) {
	user := &entity.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  password, // hashed by the repository
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := u.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", ErrEmailTaken
		}
		u.logger.Error("failed to register user", zap.String("email", email), zap.Error(err))
		return "", err
	}

	u.logger.Info("user registered", zap.String("user_id", user.ID))
	return user.ID, nil
}

// Login verifies the credentials and issues a signed session token. The
// token is also cached so Logout can revoke it before expiry.
func (u *UserUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.jwtSecret))
	if err != nil {
		u.logger.Error("failed to sign token", zap.String("user_id", user.ID), zap.Error(err))
		return "", err
	}

	if err := u.repo.CacheToken(ctx, user.ID, token, u.tokenTTL); err != nil {
		u.logger.Warn("failed to cache session token", zap.String("user_id", user.ID), zap.Error(err))
	}

	u.logger.Info("user logged in", zap.String("user_id", user.ID))
	return token, nil
}

func (u *UserUsecase) Logout(ctx context.Context, userID string) error {
	return u.repo.InvalidateToken(ctx, userID)
}

// ValidateSession reports whether the presented token is the user's active
// session. A token that was invalidated by Logout, or superseded by a newer
// login, is no longer valid even before its expiry.
func (u *UserUsecase) ValidateSession(ctx context.Context, userID, token string) (bool, error) {
	cached, err := u.repo.GetToken(ctx, userID)
	if err != nil {
		return false, err
	}
	return cached != "" && cached == token, nil
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return u.repo.GetUserByID(ctx, userID)
}
