package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/domain/finance"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
)

// ExpenseHandler serves the Finanzas section: expenses are created and
// deleted, never edited.
type ExpenseHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewExpenseHandler(db *gorm.DB, audit *audit.Dispatcher) *ExpenseHandler {
	return &ExpenseHandler{db: db, audit: audit}
}

type CreateExpenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"required"`
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Categoría, monto y fecha son obligatorios.")
		return
	}

	category, err := finance.ParseCategory(req.Category)
	if err != nil {
		writeError(c, err, "invalid_category")
		return
	}
	if err := finance.ValidAmount(req.Amount); err != nil {
		writeError(c, err, "invalid_amount")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	expense := models.Expense{
		BusinessID:  businessID(c),
		Category:    string(category),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Date:        date,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&expense).Error; err != nil {
		httperr.Internal(c, "failed_to_create_expense", "Error al registrar el egreso.")
		return
	}

	h.log(c, "expense_created", expense.ID, map[string]any{"category": expense.Category, "amount": expense.Amount})
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) ListByMonth(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	from, to := monthDates(year, month)

	q := h.db.WithContext(c.Request.Context()).
		Where("business_id = ? AND date >= ? AND date < ?", businessID(c), from, to)
	if cat := c.Query("category"); cat != "" {
		category, err := finance.ParseCategory(cat)
		if err != nil {
			writeError(c, err, "invalid_category")
			return
		}
		q = q.Where("category = ?", string(category))
	}

	var expenses []models.Expense
	if err := q.Order("date DESC, id DESC").Find(&expenses).Error; err != nil {
		httperr.Internal(c, "failed_to_list_expenses", "Error al listar egresos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"month":    month,
		"expenses": expenses,
	})
}

// Delete removes exactly the :id expense of the session business.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND business_id = ?", id, businessID(c)).
		Delete(&models.Expense{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_expense", "Error al borrar el egreso.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "expense_not_found", "Egreso no encontrado.")
		return
	}

	h.log(c, "expense_deleted", id, nil)
	c.Status(http.StatusNoContent)
}

func (h *ExpenseHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, finance.Categories())
}

func (h *ExpenseHandler) log(c *gin.Context, action string, id uint, meta any) {
	uid := userID(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: businessID(c),
		UserID:     &uid,
		Action:     action,
		Entity:     "expense",
		EntityID:   &id,
		Metadata:   meta,
	})
}

// monthDates returns the first day of the month and of the next one as
// YYYY-MM-DD, for date columns.
func monthDates(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.Format("2006-01-02"), first.AddDate(0, 1, 0).Format("2006-01-02")
}

func monthLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
