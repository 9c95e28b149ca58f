package models

import "time"

// Business is the tenant ("negocio"). Slug is fixed at onboarding.
type Business struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Slug  string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	Address    string `gorm:"size:255" json:"address"`
	BrandColor string `gorm:"size:7;default:'#111827'" json:"brand_color"`

	LogoURL string `gorm:"size:500" json:"logo_url"`
	LogoKey string `gorm:"size:255" json:"-"`

	Plan        string     `gorm:"size:20;default:'trial'" json:"plan"`
	PlanStatus  string     `gorm:"size:20;default:'trialing'" json:"plan_status"`
	TrialEndsAt *time.Time `json:"trial_ends_at"`

	OpeningHour       int    `gorm:"default:9" json:"opening_hour"`
	ClosingHour       int    `gorm:"default:20" json:"closing_hour"`
	SlotStepMinutes   int    `gorm:"default:30" json:"slot_step_minutes"`
	Timezone          string `gorm:"size:64" json:"timezone"`
	MinAdvanceMinutes int    `gorm:"default:0" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
