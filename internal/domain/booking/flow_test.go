package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func readyFlow(t *testing.T) *Flow {
	t.Helper()
	f := New()
	require.NoError(t, f.SelectService(3))
	require.NoError(t, f.SelectStaff(7))
	require.NoError(t, f.SelectDateTime(start))
	return f
}

func TestFlow_LinearForward(t *testing.T) {
	f := New()
	assert.Equal(t, StepSelectService, f.Step)

	require.NoError(t, f.SelectService(3))
	assert.Equal(t, StepSelectStaff, f.Step)

	require.NoError(t, f.SelectStaff(7))
	assert.Equal(t, StepSelectDateTime, f.Step)

	require.NoError(t, f.SelectDateTime(start))
	assert.Equal(t, StepConfirmDetails, f.Step)
	assert.True(t, f.Complete())
}

func TestFlow_CannotSkipSteps(t *testing.T) {
	f := New()

	assert.ErrorIs(t, f.SelectStaff(7), ErrWrongStep)
	assert.ErrorIs(t, f.SelectDateTime(start), ErrWrongStep)
	_, err := f.Confirm(Contact{Name: "Ana", Phone: "1155551234"})
	assert.ErrorIs(t, err, ErrWrongStep)
	assert.Equal(t, StepSelectService, f.Step)
}

func TestFlow_RejectsEmptySelections(t *testing.T) {
	f := New()
	assert.ErrorIs(t, f.SelectService(0), ErrInvalidSelection)
	require.NoError(t, f.SelectService(1))
	assert.ErrorIs(t, f.SelectStaff(0), ErrInvalidSelection)
	require.NoError(t, f.SelectStaff(1))
	assert.ErrorIs(t, f.SelectDateTime(time.Time{}), ErrInvalidSelection)
	assert.Equal(t, StepSelectDateTime, f.Step)
}

func TestFlow_BackKeepsSelections(t *testing.T) {
	f := readyFlow(t)

	require.NoError(t, f.Back())
	require.NoError(t, f.Back())
	assert.Equal(t, StepSelectStaff, f.Step)
	assert.Equal(t, uint(3), f.ServiceID)
	assert.Equal(t, uint(7), f.StaffID)
	require.NotNil(t, f.StartAt)

	require.NoError(t, f.SelectStaff(9))
	assert.Equal(t, uint(9), f.StaffID)
	assert.Equal(t, StepSelectDateTime, f.Step)

	require.NoError(t, f.Back())
	require.NoError(t, f.Back())
	assert.ErrorIs(t, f.Back(), ErrFirstStep)
}

func TestFlow_ConfirmDetailsNeverReachedIncomplete(t *testing.T) {
	// Hand-built state that skipped a selection must not confirm.
	f := &Flow{Step: StepSelectDateTime, ServiceID: 3}
	assert.ErrorIs(t, f.SelectDateTime(start), ErrIncomplete)
	assert.Equal(t, StepSelectDateTime, f.Step)

	f = &Flow{Step: StepConfirmDetails, ServiceID: 3, StaffID: 7}
	_, err := f.Confirm(Contact{Name: "Ana", Phone: "1155551234"})
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestFlow_ConfirmValidatesContact(t *testing.T) {
	f := readyFlow(t)

	_, err := f.Confirm(Contact{Phone: "1155551234"})
	assert.ErrorIs(t, err, ErrContactName)

	_, err = f.Confirm(Contact{Name: "Ana", Phone: "12"})
	assert.ErrorIs(t, err, ErrContactPhone)

	_, err = f.Confirm(Contact{Name: "Ana", Phone: "1155551234", Email: "ana@"})
	assert.ErrorIs(t, err, ErrContactEmail)

	req, err := f.Confirm(Contact{Name: " Ana ", Phone: "11 5555-1234", Email: "Ana@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), req.ServiceID)
	assert.Equal(t, uint(7), req.StaffID)
	assert.True(t, req.StartAt.Equal(start))
	assert.Equal(t, "Ana", req.Contact.Name)
	assert.Equal(t, "1155551234", req.Contact.Phone)
	assert.Equal(t, "ana@example.com", req.Contact.Email)
}

func TestFlow_FailureKeepsState(t *testing.T) {
	f := readyFlow(t)
	_, err := f.Confirm(Contact{Name: "Ana", Phone: "1155551234"})
	require.NoError(t, err)

	f.MarkFailed(errors.New("time_conflict"))

	assert.Equal(t, StepConfirmDetails, f.Step)
	assert.Equal(t, "time_conflict", f.LastError)
	assert.False(t, f.Submitted())

	_, err = f.Confirm(Contact{Name: "Ana", Phone: "1155551234"})
	assert.NoError(t, err, "resubmission must be possible after a failure")
}

func TestFlow_ResetAfterDelay(t *testing.T) {
	f := readyFlow(t)
	_, err := f.Confirm(Contact{Name: "Ana", Phone: "1155551234"})
	require.NoError(t, err)

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	f.MarkSubmitted(42, now)

	assert.ErrorIs(t, f.Back(), ErrAlreadySubmitted)
	assert.False(t, f.ResetIfDue(now.Add(2*time.Second), 3*time.Second))
	assert.Equal(t, uint(42), f.AppointmentID)

	assert.True(t, f.ResetIfDue(now.Add(3*time.Second), 3*time.Second))
	assert.Equal(t, StepSelectService, f.Step)
	assert.Zero(t, f.ServiceID)
	assert.Zero(t, f.StaffID)
	assert.Nil(t, f.StartAt)
	assert.Nil(t, f.SubmittedAt)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "confirm_details", StepConfirmDetails.String())
	assert.Equal(t, "unknown", Step(9).String())
}
