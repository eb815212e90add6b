package services

import (
	"context"
	"errors"
	"time"

	"github.com/02priyeshraj/GrubSpot_Backend/apperror"
	"github.com/02priyeshraj/GrubSpot_Backend/database"
	"github.com/02priyeshraj/GrubSpot_Backend/helper"
	"github.com/02priyeshraj/GrubSpot_Backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const invalidCredentials = "invalid username or password"

type Session struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      models.PublicUser `json:"user"`
}

type Identity struct {
	store  database.UserStore
	hasher helper.PasswordHasher
	tokens *helper.TokenManager
	admins map[string]bool
	now    func() time.Time
}

func NewIdentity(store database.UserStore, hasher helper.PasswordHasher, tokens *helper.TokenManager, adminUsernames []string) *Identity {
	admins := make(map[string]bool, len(adminUsernames))
	for _, name := range adminUsernames {
		admins[name] = true
	}
	return &Identity{store: store, hasher: hasher, tokens: tokens, admins: admins, now: time.Now}
}

// Register creates an account with a bcrypt hashed password.
func (s *Identity) Register(ctx context.Context, username, password string) (*models.PublicUser, error) {
	if username == "" || password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	if _, err := s.store.FindUserByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("username already exists")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, apperror.Internal(err, "error checking username")
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err, "user creation failed")
	}

	user := &models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		Password:   hash,
		Created_at: s.now(),
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, apperror.Conflict("username already exists")
		}
		return nil, apperror.Internal(err, "user creation failed")
	}

	public := user.Public()
	return &public, nil
}

// Login verifies the credentials and issues a session token. Unknown
// usernames and wrong passwords produce the same error.
func (s *Identity) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, apperror.Internal(err, "login failed")
	}

	ok, err := s.hasher.VerifyPassword(user.Password, password)
	if err != nil {
		return nil, apperror.Internal(err, "login failed")
	}
	if !ok {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	public := user.Public()
	public.Admin = s.admins[user.Username]

	token, expiresAt, err := s.tokens.GenerateToken(public.ID, public.Username, public.Admin)
	if err != nil {
		return nil, apperror.Internal(err, "login failed")
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: public}, nil
}

func (s *Identity) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "error occurred while listing users")
	}
	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public, nil
}

// Delete removes the user together with every order the user owns.
func (s *Identity) Delete(ctx context.Context, id string) (*models.PublicUser, int64, error) {
	oid, err := parseID(id, "user")
	if err != nil {
		return nil, 0, err
	}

	user, deletedOrders, err := s.store.DeleteUserCascade(ctx, oid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, 0, apperror.NotFound("user %s not found", id)
		}
		return nil, 0, apperror.Internal(err, "user deletion failed")
	}

	public := user.Public()
	return &public, deletedOrders, nil
}
