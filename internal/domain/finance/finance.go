// Package finance holds expense categories and the monthly summary shown in
// the Finanzas section.
package finance

import (
	"math"
	"strings"

	"github.com/BruksfildServices01/turnos/internal/httperr"
)

type Category string

const (
	CategoryRent        Category = "alquiler"
	CategoryElectricity Category = "luz"
	CategoryWater       Category = "agua"
	CategorySupplies    Category = "insumos"
	CategorySalaries    Category = "sueldos"
	CategoryTaxes       Category = "impuestos"
	CategoryOther       Category = "otros"
)

var categories = []Category{
	CategoryRent,
	CategoryElectricity,
	CategoryWater,
	CategorySupplies,
	CategorySalaries,
	CategoryTaxes,
	CategoryOther,
}

var (
	ErrInvalidCategory = httperr.ErrBusiness("invalid_category")
	ErrInvalidAmount   = httperr.ErrBusiness("invalid_amount")
)

func Categories() []Category {
	return append([]Category(nil), categories...)
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range categories {
		if c == known {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func ValidAmount(amount float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

type CategoryTotal struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
}

// Summary is a month of revenue against expenses.
type Summary struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	Revenue      float64 `json:"revenue"`
	Appointments int64   `json:"finalized_appointments"`

	Expenses   float64         `json:"expenses"`
	ByCategory []CategoryTotal `json:"expenses_by_category"`

	Net float64 `json:"net"`
}

// Summarize builds the summary. ByCategory lists every category in catalog
// order, zero totals included.
func Summarize(year, month int, revenue float64, finalized int64, expenses map[Category]float64) Summary {
	s := Summary{
		Year:         year,
		Month:        month,
		Revenue:      round2(revenue),
		Appointments: finalized,
		ByCategory:   make([]CategoryTotal, 0, len(categories)),
	}
	for _, c := range categories {
		t := round2(expenses[c])
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: c, Total: t})
		s.Expenses += t
	}
	s.Expenses = round2(s.Expenses)
	s.Net = round2(s.Revenue - s.Expenses)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
