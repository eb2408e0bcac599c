package user

import "go-gin-mongo-users/internal/domain"

// UserModel is the SQL row for a user. ID holds the same 24-hex form the mongo store exposes.
type UserModel struct {
	ID    string `gorm:"primaryKey;type:char(24)"`
	Name  string `gorm:"size:100;not null;index"`
	Email string `gorm:"uniqueIndex;size:255;not null"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{ID: m.ID, Name: m.Name, Email: m.Email}
}
