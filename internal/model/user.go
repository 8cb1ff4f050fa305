package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles aceitos no claim "role" do token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User é a conta autenticável da loja.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"size:128;not null" json:"nome"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:user" json:"role"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
