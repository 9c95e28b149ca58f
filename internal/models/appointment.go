package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint `gorm:"index;not null" json:"business_id"`

	StaffID uint  `gorm:"index;not null" json:"staff_id"`
	Staff   Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"staff"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	ClientID    *uint  `json:"client_id"`
	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Source string `gorm:"size:20;default:'owner'" json:"source"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	FinalizedAt *time.Time `json:"finalized_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
