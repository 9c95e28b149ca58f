package models

import "time"

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index;not null" json:"business_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	Category    string  `gorm:"size:50" json:"category"`
	DurationMin int     `gorm:"not null" json:"duration_min"`
	Price       float64 `gorm:"not null" json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`
	HidePrice   bool    `gorm:"default:false" json:"hide_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
