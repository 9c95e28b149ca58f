package models

import "time"

// Cliente simples, sem login, vinculado ao negócio. Um por telefone.
type Client struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"not null;uniqueIndex:idx_client_business_phone" json:"business_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;not null;uniqueIndex:idx_client_business_phone" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
