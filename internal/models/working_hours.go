package models

import "time"

type WorkingHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index;not null" json:"staff_id"`

	Weekday int `json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	LunchStart string `gorm:"size:5" json:"lunch_start"`
	LunchEnd   string `gorm:"size:5" json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
