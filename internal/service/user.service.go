package service

import (
	"context"
	"errors"

	"github.com/duccv/user-auth-service/internal/apperror"
	"github.com/duccv/user-auth-service/internal/model"
	"github.com/duccv/user-auth-service/internal/repository"
	"github.com/duccv/user-auth-service/pkg/password"
)

const MsgUserNotFound = "user not found"

type UserService struct {
	users  repository.UserRepository
	hasher password.Hasher
}

func NewUserService(users repository.UserRepository, hasher password.Hasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.System("failed to load users", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, req model.UserStoreRequest) (*model.User, error) {
	return createUser(ctx, s.users, s.hasher, req.Name, req.Email, req.Password)
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrSystem(err, "failed to load user")
	}
	return user, nil
}

// Update re-hashes the password only when a non-empty one is supplied.
func (s *UserService) Update(ctx context.Context, id int64, req model.UserUpdateRequest) (*model.User, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, notFoundOrSystem(err, "system error")
	}

	taken, err := s.users.EmailTakenByOther(ctx, req.Email, id)
	if err != nil {
		return nil, apperror.System("system error", err)
	}
	if taken {
		return nil, apperror.Conflict(MsgEmailTaken)
	}

	var hash string
	if req.Password != nil && *req.Password != "" {
		hash, err = s.hasher.Hash(ctx, *req.Password)
		if err != nil {
			return nil, apperror.System("failed to hash password", err)
		}
	}

	user, err := s.users.Update(ctx, id, req.Name, req.Email, hash)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, apperror.Conflict(MsgEmailTaken)
	case err != nil:
		return nil, notFoundOrSystem(err, "failed to update user")
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOrSystem(err, "failed to delete user")
	}
	return nil
}

func notFoundOrSystem(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(MsgUserNotFound)
	}
	return apperror.System(message, err)
}
