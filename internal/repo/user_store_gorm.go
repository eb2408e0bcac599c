package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"go-gin-mongo-users/internal/domain"
	"go-gin-mongo-users/internal/feature/user"
)

// GormUserStore keeps users in a SQL table (postgres or mysql).
type GormUserStore struct{ db *gorm.DB }

var _ domain.UserStore = (*GormUserStore)(nil)

func NewGormUserStore(db *gorm.DB) *GormUserStore { return &GormUserStore{db: db} }

// Migrate creates the users table with its unique email index.
func (r *GormUserStore) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&user.UserModel{})
}

func (r *GormUserStore) Insert(ctx context.Context, u *domain.User) error {
	m := user.UserModel{ID: domain.NewID(), Name: u.Name, Email: u.Email}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = m.ID
	return nil
}

func (r *GormUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.first(ctx, "id = ?", id.Hex())
}

func (r *GormUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormUserStore) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := m.ToDomain()
	return &u, nil
}

func (r *GormUserStore) Find(ctx context.Context, skip, limit int64) ([]domain.User, error) {
	var ms []user.UserModel
	skip = max(skip, 0)
	err := r.db.WithContext(ctx).
		Order("id asc").
		Offset(int(skip)).
		Limit(int(limit)).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *GormUserStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *GormUserStore) Update(ctx context.Context, id primitive.ObjectID, patch domain.UserPatch) (*domain.User, error) {
	fields := map[string]any{}
	if v, ok := patch.Name.Get(); ok {
		fields["name"] = v
	}
	if v, ok := patch.Email.Get(); ok {
		fields["email"] = v
	}
	if len(fields) > 0 {
		// RowsAffected is 0 on mysql when values are unchanged, so existence is read back below.
		err := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id.Hex()).Updates(fields).Error
		if err != nil {
			if isDupKey(err) {
				return nil, domain.ErrDuplicateEmail
			}
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *GormUserStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id.Hex()).Delete(&user.UserModel{})
	if res.Error != nil {
		return false, fmt.Errorf("delete user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
