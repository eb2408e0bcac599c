// Package service holds the user record workflow: id validation, email
// uniqueness, partial updates and paging on top of a domain.UserStore.
package service

import (
	"context"

	"go-gin-mongo-users/internal/domain"
)

// UserService is the set of operations the HTTP layer can call.
// Get, Update and Delete accept the raw id string and treat a malformed id as not found.
type UserService interface {
	Create(ctx context.Context, name, email string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, int64, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type userService struct {
	store domain.UserStore
}

var _ UserService = (*userService)(nil)

func NewUserService(store domain.UserStore) UserService {
	return &userService{store: store}
}

func (s *userService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	// Fast path only; the store's unique index decides races.
	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	u := &domain.User{Name: name, Email: email}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, rawID string) (*domain.User, error) {
	id, ok := domain.ParseID(rawID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// List returns up to limit users starting at skip, and the total number of users.
// A skip at or past the total yields an empty page without querying for records.
func (s *userService) List(ctx context.Context, skip, limit int) ([]domain.User, int64, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	skip = max(skip, 0)
	if int64(skip) >= total || limit <= 0 {
		return []domain.User{}, total, nil
	}
	users, err := s.store.Find(ctx, int64(skip), int64(limit))
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, rawID string, patch domain.UserPatch) (*domain.User, error) {
	id, ok := domain.ParseID(rawID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.IsEmpty() {
		return s.Get(ctx, rawID)
	}

	if email, ok := patch.Email.Get(); ok {
		owner, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != id.Hex() {
			return nil, domain.ErrDuplicateEmail
		}
	}

	u, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, rawID string) (bool, error) {
	id, ok := domain.ParseID(rawID)
	if !ok {
		return false, nil
	}
	return s.store.Delete(ctx, id)
}
