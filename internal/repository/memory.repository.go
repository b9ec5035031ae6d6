package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/duccv/user-auth-service/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs development
// runs without DATABASE_URL and the service tests.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]model.User
	now    func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]model.User), now: time.Now}
}

func public(u model.User) model.User {
	u.Password = ""
	return u
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, public(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u = public(u)
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) EmailTakenByOther(_ context.Context, email string, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(email, id), nil
}

func (r *MemoryUserRepository) emailTaken(email string, except int64) bool {
	for _, u := range r.users {
		if u.Email == email && u.ID != except {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) Create(_ context.Context, name, email, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(email, 0) {
		return nil, ErrDuplicateEmail
	}
	r.nextID++
	now := r.now()
	u := model.User{ID: r.nextID, Name: name, Email: email, Password: passwordHash, CreatedAt: &now, UpdatedAt: &now}
	r.users[u.ID] = u

	u = public(u)
	return &u, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, id int64, name, email, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.emailTaken(email, id) {
		return nil, ErrDuplicateEmail
	}
	now := r.now()
	u.Name, u.Email, u.UpdatedAt = name, email, &now
	if passwordHash != "" {
		u.Password = passwordHash
	}
	r.users[id] = u

	u = public(u)
	return &u, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}
