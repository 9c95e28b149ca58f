package appointment

import "github.com/BruksfildServices01/turnos/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

type Source string

const (
	SourceOwner  Source = "owner"
	SourcePublic Source = "public"
)

var (
	ErrInvalidStatus = httperr.ErrBusiness("invalid_status")
	ErrInvalidState  = httperr.ErrBusiness("invalid_state")
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusFinalized, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Blocking reports whether an appointment in this status holds its slot.
func Blocking(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// BlockingStatuses is the list form of Blocking, for queries.
func BlockingStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

func Terminal(s Status) bool {
	return s == StatusFinalized || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanTransition define se um turno pode passar de from para to
func CanTransition(from, to Status) error {
	if Terminal(from) || from == to {
		return ErrInvalidState
	}
	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCancelled || to == StatusFinalized {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCancelled || to == StatusFinalized {
			return nil
		}
	}
	return ErrInvalidState
}

func InitialStatus() Status {
	return StatusPending
}
