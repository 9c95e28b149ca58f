package dto

import (
	"time"

	"github.com/BruksfildServices01/turnos/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ClientEmail string    `json:"client_email,omitempty"`
	ServiceID   uint      `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Price       float64   `json:"price"`
	StaffID     uint      `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	Notes       string    `json:"notes,omitempty"`
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			Source:      ap.Source,
			ClientName:  ap.ClientName,
			ClientPhone: ap.ClientPhone,
			ClientEmail: ap.ClientEmail,
			ServiceID:   ap.ServiceID,
			ServiceName: ap.Service.Name,
			Price:       ap.Service.Price,
			StaffID:     ap.StaffID,
			StaffName:   ap.Staff.Name,
			Notes:       ap.Notes,
		})
	}
	return out
}
