package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a single user record. ID is the hex form of the store-assigned ObjectID.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Optional distinguishes a field that was not supplied from one supplied with its zero value.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Set: true} }

func (o Optional[T]) Get() (T, bool) { return o.Value, o.Set }

// UserPatch is a partial update. Unset fields keep their stored value.
type UserPatch struct {
	Name  Optional[string]
	Email Optional[string]
}

func (p UserPatch) IsEmpty() bool { return !p.Name.Set && !p.Email.Set }

// Apply returns u with the set fields of p merged in.
func (p UserPatch) Apply(u User) User {
	if v, ok := p.Name.Get(); ok {
		u.Name = v
	}
	if v, ok := p.Email.Get(); ok {
		u.Email = v
	}
	return u
}

// UserStore is the persistent collection of users.
// Lookups return (nil, nil) when nothing matches; a unique-key violation on email
// is reported as ErrDuplicateEmail.
type UserStore interface {
	Insert(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Find(ctx context.Context, skip, limit int64) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, patch UserPatch) (*User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}
