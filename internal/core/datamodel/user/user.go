package user

import "time"

type User struct {
	ID          int64     `gorm:"primaryKey"`
	Email       string    `gorm:"column:email;uniqueIndex;not null"`
	Subject     string    `gorm:"column:subject"`
	Name        string    `gorm:"column:name"`
	Image       string    `gorm:"column:image"`
	Role        string    `gorm:"column:role;not null;default:citizen"`
	IsPremium   bool      `gorm:"column:is_premium;not null;default:false"`
	IsBlocked   bool      `gorm:"column:is_blocked;not null;default:false"`
	HasPassword bool      `gorm:"column:has_password;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
