package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/infra/storage"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/timezone"
	"github.com/BruksfildServices01/turnos/internal/validators"
)

// BusinessStore reads and patches the tenant row.
type BusinessStore interface {
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
}

// Invalidator drops cached business snapshots.
type Invalidator interface {
	Invalidate(ctx context.Context, b *models.Business)
}

// LogoStore uploads and removes logo objects.
type LogoStore interface {
	Enabled() bool
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

type BusinessHandler struct {
	store BusinessStore
	cache Invalidator
	logos LogoStore
	audit *audit.Dispatcher
}

func NewBusinessHandler(store BusinessStore, cache Invalidator, logos LogoStore, audit *audit.Dispatcher) *BusinessHandler {
	return &BusinessHandler{store: store, cache: cache, logos: logos, audit: audit}
}

type UpdateBusinessRequest struct {
	Slug *string `json:"slug"`

	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
	BrandColor *string `json:"brand_color"`

	OpeningHour       *int    `json:"opening_hour"`
	ClosingHour       *int    `json:"closing_hour"`
	SlotStepMinutes   *int    `json:"slot_step_minutes"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *BusinessHandler) Get(c *gin.Context) {
	b, err := h.store.GetByID(c.Request.Context(), businessID(c))
	if err != nil {
		writeError(c, err, "failed_to_get_business")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BusinessHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	current, err := h.store.GetByID(ctx, businessID(c))
	if err != nil {
		writeError(c, err, "failed_to_get_business")
		return
	}

	fields, code, msg := businessUpdates(current, &req)
	if code != "" {
		httperr.BadRequest(c, code, msg)
		return
	}

	if err := h.store.Update(ctx, current.ID, fields); err != nil {
		httperr.Internal(c, "failed_to_update_business", "Error al guardar la configuración.")
		return
	}
	h.cache.Invalidate(ctx, current)

	updated, err := h.store.GetByID(ctx, current.ID)
	if err != nil {
		writeError(c, err, "failed_to_get_business")
		return
	}

	uid := userID(c)
	h.audit.Dispatch(audit.Event{
		BusinessID: current.ID,
		UserID:     &uid,
		Action:     "business_updated",
		Entity:     "business",
		EntityID:   &current.ID,
		Metadata:   fields,
	})

	c.JSON(http.StatusOK, updated)
}

// businessUpdates validates req against the current row and returns the
// columns to write, or an error code and message.
func businessUpdates(current *models.Business, req *UpdateBusinessRequest) (map[string]any, string, string) {
	fields := map[string]any{}

	if req.Slug != nil && *req.Slug != current.Slug {
		return nil, "slug_immutable", "El enlace del negocio no se puede cambiar."
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, "invalid_name", "El nombre es obligatorio."
		}
		fields["name"] = name
	}
	if req.Phone != nil {
		phone := validators.NormalizePhone(*req.Phone)
		if phone != "" && !validators.IsPhone(phone) {
			return nil, "invalid_phone", "Teléfono inválido."
		}
		fields["phone"] = phone
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != "" && !validators.IsEmail(email) {
			return nil, "invalid_email", "Email inválido."
		}
		fields["email"] = email
	}
	if req.Address != nil {
		fields["address"] = strings.TrimSpace(*req.Address)
	}
	if req.BrandColor != nil {
		color := strings.ToLower(strings.TrimSpace(*req.BrandColor))
		if !validators.IsHexColor(color) {
			return nil, "invalid_brand_color", "El color debe tener el formato #RRGGBB."
		}
		fields["brand_color"] = color
	}

	openH, closeH := current.OpeningHour, current.ClosingHour
	if req.OpeningHour != nil {
		openH = *req.OpeningHour
		fields["opening_hour"] = openH
	}
	if req.ClosingHour != nil {
		closeH = *req.ClosingHour
		fields["closing_hour"] = closeH
	}
	if openH < 0 || closeH > 24 || openH >= closeH {
		return nil, "invalid_hours", "El horario de apertura debe ser anterior al de cierre (0 a 24)."
	}

	if req.SlotStepMinutes != nil {
		step := *req.SlotStepMinutes
		if step < 5 || step > 240 {
			return nil, "invalid_slot_step", "El intervalo de turnos debe estar entre 5 y 240 minutos."
		}
		fields["slot_step_minutes"] = step
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			return nil, "invalid_timezone", "Zona horaria inválida."
		}
		fields["timezone"] = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			return nil, "invalid_min_advance", "La anticipación mínima debe ser cero o positiva (en minutos)."
		}
		fields["min_advance_minutes"] = *req.MinAdvanceMinutes
	}

	return fields, "", ""
}

// UploadLogo accepts multipart field "logo".
func (h *BusinessHandler) UploadLogo(c *gin.Context) {
	ctx := c.Request.Context()

	if h.logos == nil || !h.logos.Enabled() {
		writeError(c, storage.ErrStorageDisabled, "storage_disabled")
		return
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_logo", "Falta el archivo del logo.")
		return
	}
	if fh.Size > storage.MaxLogoBytes {
		writeError(c, storage.ErrLogoTooLarge, "logo_too_large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_logo", "No se pudo leer el archivo.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxLogoBytes+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_logo", "No se pudo leer el archivo.")
		return
	}

	logo, err := storage.ProcessLogo(data)
	if err != nil {
		writeError(c, err, "invalid_logo")
		return
	}

	current, err := h.store.GetByID(ctx, businessID(c))
	if err != nil {
		writeError(c, err, "failed_to_get_business")
		return
	}

	key := storage.LogoKey(current.ID, logo.Ext)
	url, err := h.logos.Upload(ctx, key, logo.Data, logo.ContentType)
	if err != nil {
		httperr.Unavailable(c, "logo_upload_failed", "No se pudo subir el logo, intentá de nuevo.")
		return
	}

	if err := h.store.Update(ctx, current.ID, map[string]any{"logo_url": url, "logo_key": key}); err != nil {
		_ = h.logos.Delete(ctx, key)
		httperr.Internal(c, "failed_to_update_business", "Error al guardar el logo.")
		return
	}
	if current.LogoKey != "" && current.LogoKey != key {
		_ = h.logos.Delete(ctx, current.LogoKey)
	}
	h.cache.Invalidate(ctx, current)

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}
