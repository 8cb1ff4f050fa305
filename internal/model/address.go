package model

import (
	"time"

	"gorm.io/gorm"
)

// Address é um endereço de entrega pertencente a um usuário.
type Address struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Label    string `gorm:"size:64" json:"rotulo"`
	Street   string `gorm:"size:255;not null" json:"rua"`
	Number   string `gorm:"size:16;not null" json:"numero"`
	District string `gorm:"size:128" json:"bairro"`
	City     string `gorm:"size:128;not null" json:"cidade"`
	State    string `gorm:"size:2;not null" json:"estado"`
	CEP      string `gorm:"size:9;not null" json:"cep"`
}

func (Address) TableName() string { return "addresses" }
