package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/httpresp"
	"github.com/BruksfildServices01/turnos/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ClientRow is a CRM entry with its visit history folded in.
type ClientRow struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Visits    int64      `json:"visits"`
	Bookings  int64      `json:"bookings"`
	LastVisit *time.Time `json:"last_visit"`
	CreatedAt time.Time  `json:"created_at"`
}

// ======================================================
// LIST CLIENTS (CRM)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	bid := businessID(c)
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Select(`clients.id, clients.name, clients.phone, clients.email, clients.created_at,
			COUNT(appointments.id) FILTER (WHERE appointments.status = ?) AS visits,
			COUNT(appointments.id) AS bookings,
			MAX(appointments.start_time) FILTER (WHERE appointments.status = ?) AS last_visit`,
			string(domain.StatusFinalized), string(domain.StatusFinalized)).
		Joins("LEFT JOIN appointments ON appointments.client_id = clients.id AND appointments.business_id = clients.business_id").
		Where("clients.business_id = ?", bid)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(clients.name) LIKE ? OR clients.phone LIKE ? OR LOWER(clients.email) LIKE ?",
			like, like, like,
		)
	}

	var clients []ClientRow
	if err := q.
		Group("clients.id").
		Order("visits DESC, clients.created_at DESC").
		Scan(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Error al listar clientes.")
		return
	}

	httpresp.List(c, clients)
}
