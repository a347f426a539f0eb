package models

import (
	"time"

	"github.com/carlothq/carlot-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	DisplayName  string     `gorm:"column:display_name;not null" json:"displayName"`
	Role         enums.Role `gorm:"column:role;not null;default:buyer" json:"role"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"isActive"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
