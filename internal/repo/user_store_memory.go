package repo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-users/internal/domain"
)

// MemoryUserStore is a process-local store with the same uniqueness rules as the
// database-backed ones. It backs the "memory" driver and the handler tests.
type MemoryUserStore struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]domain.User
	byEmail map[string]string
}

var _ domain.UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    map[string]domain.User{},
		byEmail: map[string]string{},
	}
}

func (s *MemoryUserStore) Insert(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = domain.NewID()
	s.byID[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	s.order = append(s.order, u.ID)
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id.Hex()]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := s.byID[id]
	return &u, nil
}

func (s *MemoryUserStore) Find(_ context.Context, skip, limit int64) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.User{}
	if skip < 0 {
		skip = 0
	}
	for i := skip; i < int64(len(s.order)) && int64(len(out)) < limit; i++ {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

func (s *MemoryUserStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.order)), nil
}

func (s *MemoryUserStore) Update(_ context.Context, id primitive.ObjectID, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[id.Hex()]
	if !ok {
		return nil, nil
	}
	next := patch.Apply(cur)
	if next.Email != cur.Email {
		if _, taken := s.byEmail[next.Email]; taken {
			return nil, domain.ErrDuplicateEmail
		}
		delete(s.byEmail, cur.Email)
		s.byEmail[next.Email] = next.ID
	}
	s.byID[next.ID] = next
	return &next, nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.Hex()
	u, ok := s.byID[key]
	if !ok {
		return false, nil
	}
	delete(s.byID, key)
	delete(s.byEmail, u.Email)
	for i, v := range s.order {
		if v == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}
