package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/webcarros/backend/internal/user/entity"
	"github.com/webcarros/backend/internal/user/repository"
)

// fakeUserRepo is an in-memory stand-in that hashes like the real
// repository does.
type fakeUserRepo struct {
	users  map[string]*entity.User // by email
	tokens map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}, tokens: map[string]string{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *entity.User) error {
	if _, ok := r.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) CacheToken(_ context.Context, userID, token string, _ time.Duration) error {
	r.tokens[userID] = token
	return nil
}

func (r *fakeUserRepo) GetToken(_ context.Context, userID string) (string, error) {
	return r.tokens[userID], nil
}

func (r *fakeUserRepo) InvalidateToken(_ context.Context, userID string) error {
	delete(r.tokens, userID)
	return nil
}

const testSecret = "test-secret"

func newUserUsecaseForTest() (*UserUsecase, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserUsecase(repo, testSecret, time.Hour, zap.NewNop()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	uc, repo := newUserUsecaseForTest()

	userID, err := uc.Register(context.Background(), "Rodrigo", "rodrigo@example.com", "senha123")
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	token, err := uc.Login(context.Background(), "rodrigo@example.com", "senha123")
	require.NoError(t, err)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Rodrigo", claims.Name)

	assert.Equal(t, token, repo.tokens[userID])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _ := newUserUsecaseForTest()

	_, err := uc.Register(context.Background(), "Rodrigo", "rodrigo@example.com", "senha123")
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), "Outro", "rodrigo@example.com", "outrasenha")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	uc, _ := newUserUsecaseForTest()

	_, err := uc.Register(context.Background(), "Rodrigo", "rodrigo@example.com", "senha123")
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), "rodrigo@example.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc, _ := newUserUsecaseForTest()

	_, err := uc.Login(context.Background(), "ninguem@example.com", "senha123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	uc, repo := newUserUsecaseForTest()

	userID, err := uc.Register(context.Background(), "Rodrigo", "rodrigo@example.com", "senha123")
	require.NoError(t, err)
	_, err = uc.Login(context.Background(), "rodrigo@example.com", "senha123")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), userID))
	assert.Empty(t, repo.tokens[userID])
}

func TestValidateSession_RejectsAfterLogout(t *testing.T) {
	uc, _ := newUserUsecaseForTest()

	userID, err := uc.Register(context.Background(), "Rodrigo", "rodrigo@example.com", "senha123")
	require.NoError(t, err)
	token, err := uc.Login(context.Background(), "rodrigo@example.com", "senha123")
	require.NoError(t, err)

	ok, err := uc.ValidateSession(context.Background(), userID, token)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, uc.Logout(context.Background(), userID))

	ok, err = uc.ValidateSession(context.Background(), userID, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateSession_RejectsForeignToken(t *testing.T) {
	uc, _ := newUserUsecaseForTest()

	userID, err := uc.Register(context.Background(), "Rodrigo", "rodrigo@example.com", "senha123")
	require.NoError(t, err)
	_, err = uc.Login(context.Background(), "rodrigo@example.com", "senha123")
	require.NoError(t, err)

	ok, err := uc.ValidateSession(context.Background(), userID, "some-other-token")
	require.NoError(t, err)
	assert.False(t, ok)
}
