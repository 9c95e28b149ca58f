package models

import "time"

// Expense ("egreso") is append-only: created and deleted, never edited.
type Expense struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index;not null" json:"business_id"`

	Category    string    `gorm:"size:20;not null" json:"category"`
	Description string    `gorm:"size:255" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`

	CreatedAt time.Time `json:"created_at"`
}
