package appointment

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/models"
)

// fakeRepo is an in-memory domain.Repository with the same conflict rule
// as the gorm implementation.
type fakeRepo struct {
	mu       sync.Mutex
	business models.Business
	services map[uint]models.Service
	staff    map[uint]models.Staff
	hours    map[uint][]models.WorkingHours
	clients  []models.Client
	apps     []models.Appointment
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		business: models.Business{
			ID:              1,
			Name:            "Barbería Centro",
			Slug:            "barberia-centro",
			OpeningHour:     9,
			ClosingHour:     20,
			SlotStepMinutes: 30,
			Timezone:        "America/Argentina/Buenos_Aires",
			Plan:            "trial",
		},
		services: map[uint]models.Service{
			10: {ID: 10, BusinessID: 1, Name: "Corte", DurationMin: 30, Price: 8000, Active: true},
			11: {ID: 11, BusinessID: 1, Name: "Color", DurationMin: 60, Price: 20000, Active: true},
			12: {ID: 12, BusinessID: 1, Name: "Viejo", DurationMin: 30, Price: 1000, Active: false},
		},
		staff: map[uint]models.Staff{
			20: {ID: 20, BusinessID: 1, Name: "Leo", Active: true},
			21: {ID: 21, BusinessID: 1, Name: "Sofi", Active: true},
		},
		hours:  map[uint][]models.WorkingHours{},
		nextID: 100,
	}
}

func (r *fakeRepo) GetBusinessByID(_ context.Context, id uint) (*models.Business, error) {
	if id != r.business.ID {
		return nil, gorm.ErrRecordNotFound
	}
	b := r.business
	return &b, nil
}

func (r *fakeRepo) GetService(_ context.Context, businessID, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok || s.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *fakeRepo) GetStaff(_ context.Context, businessID, id uint) (*models.Staff, error) {
	s, ok := r.staff[id]
	if !ok || s.BusinessID != businessID {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *fakeRepo) ListWorkingHours(_ context.Context, staffID uint) ([]models.WorkingHours, error) {
	return r.hours[staffID], nil
}

func (r *fakeRepo) GetOrCreateClient(_ context.Context, businessID uint, name, phone, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.BusinessID == businessID && c.Phone == phone {
			return &c, nil
		}
	}
	c := models.Client{ID: uint(len(r.clients) + 1), BusinessID: businessID, Name: name, Phone: phone, Email: email}
	r.clients = append(r.clients, c)
	return &c, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.apps {
		if ex.StaffID == ap.StaffID &&
			domain.Blocking(domain.Status(ex.Status)) &&
			ex.StartTime.Before(ap.EndTime) && ex.EndTime.After(ap.StartTime) {
			return domain.ErrTimeConflict
		}
	}
	r.nextID++
	ap.ID = r.nextID
	r.apps = append(r.apps, *ap)
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, businessID, id uint) (*models.Appointment, error) {
	for _, ap := range r.apps {
		if ap.ID == id && ap.BusinessID == businessID {
			cp := ap
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range r.apps {
		if r.apps[i].ID == ap.ID {
			r.apps[i] = *ap
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, businessID, id uint) error {
	for i := range r.apps {
		if r.apps[i].ID == id && r.apps[i].BusinessID == businessID {
			r.apps = append(r.apps[:i], r.apps[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.BusinessID != f.BusinessID {
			continue
		}
		if f.StaffID != 0 && ap.StaffID != f.StaffID {
			continue
		}
		if ap.StartTime.Before(f.From) || !ap.StartTime.Before(f.To) {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, ap.Status) {
			continue
		}
		ap.Service = r.services[ap.ServiceID]
		ap.Staff = r.staff[ap.StaffID]
		out = append(out, ap)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *fakeRepo) seed(staffID uint, start time.Time, minutes int, status domain.Status) uint {
	r.nextID++
	r.apps = append(r.apps, models.Appointment{
		ID:          r.nextID,
		BusinessID:  1,
		StaffID:     staffID,
		ServiceID:   10,
		ClientName:  "Seed",
		ClientPhone: "1100000000",
		StartTime:   start,
		EndTime:     start.Add(time.Duration(minutes) * time.Minute),
		Status:      string(status),
	})
	return r.nextID
}

var _ domain.Repository = (*fakeRepo)(nil)
