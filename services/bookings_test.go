package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "property-ops/errors"
	"property-ops/model"
)

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)

	booking := env.addBooking(t, stay("prop-1", 1, 3))
	assert.Equal(t, model.BookingPending, booking.Status)
	assert.Equal(t, 3, booking.Nights())
	assert.Equal(t, "450", booking.Amount.String())

	stored, err := env.bookings.Get(env.ctx, booking.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, booking.GuestName, stored.GuestName)

	notes, err := env.notifier.List(env.ctx, AdminRecipient, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "New booking request", notes[0].Title)
}

func TestCreateBookingRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		description string
		mutate      func(in *CreateBookingInput)
		err         error
	}{
		{"check-out before check-in", func(in *CreateBookingInput) { in.CheckOut = in.CheckIn.Add(-time.Hour) }, apperrors.ErrInvalidDates},
		{"check-out equals check-in", func(in *CreateBookingInput) { in.CheckOut = in.CheckIn }, apperrors.ErrInvalidDates},
		{"missing guest name", func(in *CreateBookingInput) { in.GuestName = "  " }, apperrors.ErrValidation},
		{"missing property", func(in *CreateBookingInput) { in.PropertyId = "" }, apperrors.ErrValidation},
		{"no guests", func(in *CreateBookingInput) { in.Guests = 0 }, apperrors.ErrValidation},
		{"negative amount", func(in *CreateBookingInput) { in.Amount = decimal.NewFromInt(-1) }, apperrors.ErrValidation},
		{"bad email", func(in *CreateBookingInput) { in.GuestEmail = "not-an-email" }, apperrors.ErrValidation},
	}

	for _, tt := range cases {
		in := stay("prop-1", 1, 2)
		tt.mutate(&in)
		_, err := env.bookings.Create(env.ctx, "tester", in)
		assert.ErrorIsf(t, err, tt.err, tt.description)
	}

	all, err := env.bookings.List(env.ctx, "", false)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRejectedBookingLeavesActiveList(t *testing.T) {
	env := newTestEnv(t)
	kept := env.addBooking(t, stay("prop-1", 1, 2))
	dropped := env.addBooking(t, stay("prop-1", 5, 2))

	rejected, err := env.bookings.Reject(env.ctx, "manager", dropped.Id.Hex(), " double booked ")
	require.NoError(t, err)
	assert.Equal(t, model.BookingRejected, rejected.Status)
	assert.Equal(t, "double booked", rejected.RejectionReason)

	active, err := env.bookings.List(env.ctx, "", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept.Id, active[0].Id)

	onlyRejected, err := env.bookings.List(env.ctx, model.BookingRejected, true)
	require.NoError(t, err)
	require.Len(t, onlyRejected, 1)

	stored, err := env.bookings.Get(env.ctx, dropped.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, model.BookingRejected, stored.Status)

	_, _, err = env.bookings.Approve(env.ctx, "manager", dropped.Id.Hex())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestApproveBookingCreatesTurnoverJob(t *testing.T) {
	env := newTestEnv(t)
	booking := env.addBooking(t, stay("prop-1", 1, 3))

	approved, job, err := env.bookings.Approve(env.ctx, "manager", booking.Id.Hex())
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, model.BookingApproved, approved.Status)

	assert.Equal(t, booking.Id.Hex(), job.BookingId)
	assert.Equal(t, model.JobPending, job.Status)
	assert.Equal(t, model.JobTypeCleaning, job.Type)
	assert.Equal(t, "cleaner", job.RequiredRole)
	assert.Equal(t, "Turnover cleaning: Harbour Loft", job.Title)
	assert.True(t, job.Start.Equal(booking.CheckOut))
	assert.Equal(t, TurnoverDuration, job.End.Sub(job.Start))

	_, _, err = env.bookings.Approve(env.ctx, "manager", booking.Id.Hex())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	guestMail, err := env.notifier.List(env.ctx, "ada@example.com", 0)
	require.NoError(t, err)
	require.Len(t, guestMail, 1)
	assert.Equal(t, model.ChannelEmail, guestMail[0].Channel)
}

func TestApproveUnknownBooking(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.bookings.Approve(env.ctx, "manager", "665f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApprovedOverlapping(t *testing.T) {
	env := newTestEnv(t)
	first := env.addBooking(t, stay("prop-1", 1, 4))
	_, _, err := env.bookings.Approve(env.ctx, "manager", first.Id.Hex())
	require.NoError(t, err)

	sameProperty := env.addBooking(t, stay("prop-1", 3, 2))
	otherProperty := env.addBooking(t, stay("prop-2", 3, 2))
	afterwards := env.addBooking(t, stay("prop-1", 5, 2))

	overlapping, err := env.bookings.ApprovedOverlapping(env.ctx, sameProperty)
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, first.Id, overlapping[0].Id)

	overlapping, err = env.bookings.ApprovedOverlapping(env.ctx, otherProperty)
	require.NoError(t, err)
	assert.Empty(t, overlapping)

	overlapping, err = env.bookings.ApprovedOverlapping(env.ctx, afterwards)
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestRecordDecisionKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	booking := env.addBooking(t, stay("prop-1", 1, 2))

	updated, err := env.bookings.RecordDecision(env.ctx, booking.Id.Hex(), model.Decision{
		Outcome:    "escalate",
		Confidence: 0.6,
		Source:     "heuristic",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, updated.Status)
	require.NotNil(t, updated.Decision)
	assert.Equal(t, "escalate", updated.Decision.Outcome)
}
