package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/webcarros/backend/internal/user/entity"
)

var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
)

type mongoUser struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (m *mongoUser) toEntity() *entity.User {
	return &entity.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type UserRepository struct {
	collection *mongo.Collection
	redis      *redis.Client
}

func NewUserRepository(db *mongo.Database, redisClient *redis.Client) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
		redis:      redisClient,
	}
}

// CreateUser hashes the password and inserts the user. Emails are stored
// lower-cased and must be unique.
func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) error {
	email := strings.ToLower(user.Email)

	count, err := r.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	doc := mongoUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	user.Email = email
	user.Password = string(hashed)
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc mongoUser
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	var doc mongoUser
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// CacheToken stores the active session token for a user so logout can
// invalidate it before expiry.
func (r *UserRepository) CacheToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return r.redis.Set(ctx, "session:"+userID, token, ttl).Err()
}

func (r *UserRepository) GetToken(ctx context.Context, userID string) (string, error) {
	token, err := r.redis.Get(ctx, "session:"+userID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (r *UserRepository) InvalidateToken(ctx context.Context, userID string) error {
	return r.redis.Del(ctx, "session:"+userID).Err()
}
