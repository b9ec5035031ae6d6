package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/internal/apperror"
	"github.com/duccv/user-auth-service/internal/model"
	"github.com/duccv/user-auth-service/internal/repository"
	"github.com/duccv/user-auth-service/pkg/logger"
	"github.com/duccv/user-auth-service/pkg/password"
)

const (
	MsgInvalidCredentials = "invalid email or password"
	MsgEmailTaken         = "email already registered"

	// compared against when the email is unknown
	dummySecret = "user-auth-service/dummy-password"
)

// TokenIssuer is satisfied by *token.Service.
type TokenIssuer interface {
	Issue(subjectID int64, ttl time.Duration) (string, error)
}

type AuthService struct {
	users  repository.UserRepository
	hasher password.Hasher
	tokens TokenIssuer
	ttl    time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.UserRepository, hasher password.Hasher, tokens TokenIssuer, ttl time.Duration) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, ttl: ttl}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return createUser(ctx, s.users, s.hasher, req.Name, req.Email, req.Password)
}

// Login answers an unknown email and a wrong password with the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		// pay the same bcrypt cost as a wrong password
		_, _ = s.hasher.Verify(ctx, req.Password, s.missHash(ctx))
		return nil, apperror.Credential(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, apperror.System("system error", err)
	}

	ok, err := s.hasher.Verify(ctx, req.Password, user.Password)
	if err != nil {
		return nil, apperror.System("failed to verify password", err)
	}
	if !ok {
		logger.FromContext(ctx).Info("Login rejected", zap.Int64("userId", user.ID))
		return nil, apperror.Credential(MsgInvalidCredentials)
	}

	tok, err := s.tokens.Issue(user.ID, s.ttl)
	if err != nil {
		return nil, apperror.System("failed to create token", err)
	}

	return &model.LoginResponse{
		User:  model.LoginUser{ID: user.ID, Name: user.Name, Email: user.Email},
		Token: tok,
	}, nil
}

// missHash is hashed once with the configured cost on the first unknown email.
func (s *AuthService) missHash(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(ctx, dummySecret)
		if err != nil {
			logger.FromContext(ctx).Warn("Failed to prepare dummy hash", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func createUser(ctx context.Context, users repository.UserRepository, hasher password.Hasher, name, email, secret string) (*model.User, error) {
	hash, err := hasher.Hash(ctx, secret)
	if err != nil {
		return nil, apperror.System("failed to hash password", err)
	}

	user, err := users.Create(ctx, name, email, hash)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, apperror.Conflict(MsgEmailTaken)
	}
	if err != nil {
		return nil, apperror.System("failed to create user", err)
	}
	return user, nil
}
