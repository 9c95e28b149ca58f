package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/httperr"
)

type errInfo struct {
	status  int
	message string
}

// businessErrors maps use case codes to the status and message shown to
// the user.
var businessErrors = map[string]errInfo{
	"time_conflict":              {http.StatusConflict, "Ese horario ya está ocupado."},
	"slot_unavailable":           {http.StatusConflict, "El horario elegido ya no está disponible."},
	"too_soon":                   {http.StatusBadRequest, "El turno debe reservarse con más anticipación."},
	"past_time":                  {http.StatusBadRequest, "No se puede reservar en el pasado."},
	"outside_working_hours":      {http.StatusBadRequest, "Fuera del horario de atención."},
	"invalid_date_or_time":       {http.StatusBadRequest, "Fecha u hora inválida."},
	"invalid_date":               {http.StatusBadRequest, "Fecha inválida."},
	"missing_client_name":        {http.StatusBadRequest, "El nombre es obligatorio."},
	"invalid_client_phone":       {http.StatusBadRequest, "Teléfono inválido."},
	"invalid_client_email":       {http.StatusBadRequest, "Email inválido."},
	"service_not_found":          {http.StatusNotFound, "Servicio no encontrado."},
	"staff_not_found":            {http.StatusNotFound, "Profesional no encontrado."},
	"appointment_not_found":      {http.StatusNotFound, "Turno no encontrado."},
	"business_not_found":         {http.StatusNotFound, "Negocio no encontrado."},
	"booking_session_not_found":  {http.StatusNotFound, "La reserva expiró, empezá de nuevo."},
	"invalid_status":             {http.StatusBadRequest, "Estado inválido."},
	"invalid_state":              {http.StatusConflict, "El turno no admite ese cambio de estado."},
	"wrong_step":                 {http.StatusConflict, "Paso de reserva incorrecto."},
	"first_step":                 {http.StatusConflict, "Ya estás en el primer paso."},
	"incomplete_selection":       {http.StatusBadRequest, "Faltan datos de la reserva."},
	"already_submitted":          {http.StatusConflict, "La reserva ya fue enviada."},
	"invalid_selection":          {http.StatusBadRequest, "Selección inválida."},
	"invalid_category":           {http.StatusBadRequest, "Categoría inválida."},
	"invalid_amount":             {http.StatusBadRequest, "El monto debe ser mayor a cero."},
	"storage_disabled":           {http.StatusServiceUnavailable, "La carga de archivos no está disponible."},
	"logo_too_large":             {http.StatusBadRequest, "El logo no puede superar los 2 MB."},
	"logo_empty":                 {http.StatusBadRequest, "El archivo está vacío."},
	"logo_invalid_format":        {http.StatusBadRequest, "Formato de imagen no soportado."},
	"billing_disabled":           {http.StatusServiceUnavailable, "Los pagos no están disponibles."},
	"invalid_plan":               {http.StatusBadRequest, "Plan inválido."},
	"plan_already_active":        {http.StatusConflict, "Ese plan ya está activo."},
	"invalid_external_reference": {http.StatusBadRequest, "Referencia de pago inválida."},
}

// writeError renders err as {error_code, message}. Unknown errors become a
// 500 with fallback as the code.
func writeError(c *gin.Context, err error, fallback string) {
	if code, ok := httperr.CodeOf(err); ok {
		if info, ok := businessErrors[code]; ok {
			httperr.Write(c, info.status, code, info.message)
			return
		}
		httperr.BadRequest(c, code, "Solicitud inválida.")
		return
	}

	_ = c.Error(err)
	httperr.Internal(c, fallback, "Error interno, intentá de nuevo.")
}
