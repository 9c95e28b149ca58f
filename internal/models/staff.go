package models

import "time"

type Staff struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index;not null" json:"business_id"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Specialty string `gorm:"size:100" json:"specialty"`
	Active    bool   `gorm:"default:true" json:"active"`

	WorkingHours []WorkingHours `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE;" json:"working_hours,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the plural table name stable; gorm would infer "staffs".
func (Staff) TableName() string {
	return "staff"
}
