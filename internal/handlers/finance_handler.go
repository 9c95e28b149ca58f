package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/finance"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/session"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

type FinanceHandler struct {
	db *gorm.DB
}

func NewFinanceHandler(db *gorm.DB) *FinanceHandler {
	return &FinanceHandler{db: db}
}

type revenueRow struct {
	Revenue float64
	Count   int64
}

type categoryRow struct {
	Category string
	Total    float64
}

// Summary reports revenue from finalized appointments against the
// month's expenses.
func (h *FinanceHandler) Summary(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	bid := businessID(c)
	db := h.db.WithContext(c.Request.Context())

	var tz string
	if s, ok := session.From(c); ok {
		tz = s.Business().Timezone
	}
	loc := timezone.Location(tz)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	var rev revenueRow
	if err := db.Model(&models.Appointment{}).
		Select("COALESCE(SUM(services.price), 0) AS revenue, COUNT(appointments.id) AS count").
		Joins("JOIN services ON services.id = appointments.service_id").
		Where("appointments.business_id = ? AND appointments.status = ?", bid, string(domain.StatusFinalized)).
		Where("appointments.start_time >= ? AND appointments.start_time < ?", start, end).
		Scan(&rev).Error; err != nil {

		httperr.Internal(c, "finance_summary_failed", "Error al calcular el resumen.")
		return
	}

	from, to := monthDates(year, month)
	var rows []categoryRow
	if err := db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("business_id = ? AND date >= ? AND date < ?", bid, from, to).
		Group("category").
		Scan(&rows).Error; err != nil {

		httperr.Internal(c, "finance_summary_failed", "Error al calcular el resumen.")
		return
	}

	byCategory := make(map[finance.Category]float64, len(rows))
	for _, r := range rows {
		byCategory[finance.Category(r.Category)] += r.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"period":  monthLabel(year, month),
		"summary": finance.Summarize(year, month, rev.Revenue, rev.Count, byCategory),
	})
}
