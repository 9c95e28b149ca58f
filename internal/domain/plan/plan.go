// Package plan holds the static subscription catalog and the feature gate
// that decides which dashboard sections a business may open.
package plan

import (
	"fmt"
	"strings"
)

type ID string

const (
	Trial  ID = "trial"
	Basico ID = "basico"
	Pro    ID = "pro"
)

type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
)

type Capabilities struct {
	CRM     bool `json:"crm"`
	Finance bool `json:"finance"`
}

type Plan struct {
	ID       ID           `json:"id"`
	Name     string       `json:"name"`
	Price    int64        `json:"price"`
	Currency string       `json:"currency"`
	Features []string     `json:"features"`
	Caps     Capabilities `json:"capabilities"`
}

// ordered cheapest first; RequiredFor relies on it.
var catalog = []Plan{
	{
		ID:       Trial,
		Name:     "Prueba",
		Price:    0,
		Currency: "ARS",
		Features: []string{"Agenda", "Servicios", "Equipo", "Página pública de reservas"},
		Caps:     Capabilities{},
	},
	{
		ID:       Basico,
		Name:     "Básico",
		Price:    15000,
		Currency: "ARS",
		Features: []string{"Todo lo de Prueba", "Clientes (CRM)"},
		Caps:     Capabilities{CRM: true},
	},
	{
		ID:       Pro,
		Name:     "Pro",
		Price:    25000,
		Currency: "ARS",
		Features: []string{"Todo lo de Básico", "Finanzas y egresos"},
		Caps:     Capabilities{CRM: true, Finance: true},
	},
}

// Catalog returns a copy of every plan, cheapest first.
func Catalog() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// Get returns the plan for id; unknown ids resolve to Trial.
func Get(id ID) Plan {
	for _, p := range catalog {
		if p.ID == id {
			return p
		}
	}
	return catalog[0]
}

func Known(id string) bool {
	for _, p := range catalog {
		if string(p.ID) == id {
			return true
		}
	}
	return false
}

// Effective is the plan that gates a business. A lapsed subscription
// falls back to Trial.
func Effective(id string, status string) Plan {
	switch Status(status) {
	case StatusCancelled, StatusPastDue:
		return Get(Trial)
	}
	return Get(ID(id))
}

// ===============================
// Sections
// ===============================

type Section string

const (
	SectionAgenda   Section = "agenda"
	SectionServices Section = "services"
	SectionStaff    Section = "staff"
	SectionSettings Section = "settings"
	SectionCRM      Section = "crm"
	SectionFinance  Section = "finance"
)

func ParseSection(s string) (Section, bool) {
	switch sec := Section(strings.ToLower(strings.TrimSpace(s))); sec {
	case SectionAgenda, SectionServices, SectionStaff, SectionSettings, SectionCRM, SectionFinance:
		return sec, true
	}
	return "", false
}

func (s Section) allowed(c Capabilities) bool {
	switch s {
	case SectionCRM:
		return c.CRM
	case SectionFinance:
		return c.Finance
	}
	return true
}

// UpgradeRequired is returned when the current plan does not include a
// section. It names the cheapest plan that does.
type UpgradeRequired struct {
	Section          Section `json:"section"`
	RequiredPlan     ID      `json:"required_plan"`
	RequiredPlanName string  `json:"required_plan_name"`
}

func (e *UpgradeRequired) Error() string {
	return fmt.Sprintf("upgrade_required: %s needs plan %s", e.Section, e.RequiredPlan)
}

// Message is the prompt shown to the owner.
func (e *UpgradeRequired) Message() string {
	return fmt.Sprintf("Esta sección requiere el plan %s", e.RequiredPlanName)
}

// RequiredFor returns the cheapest plan that unlocks section.
func RequiredFor(section Section) Plan {
	for _, p := range catalog {
		if section.allowed(p.Caps) {
			return p
		}
	}
	return catalog[len(catalog)-1]
}

// Check returns nil when p may open section, otherwise *UpgradeRequired.
func Check(p Plan, section Section) error {
	if section.allowed(p.Caps) {
		return nil
	}
	req := RequiredFor(section)
	return &UpgradeRequired{
		Section:          section,
		RequiredPlan:     req.ID,
		RequiredPlanName: req.Name,
	}
}
