package handlers_tests

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-ops/model"
)

func TestCreateBookingInvalidDates(t *testing.T) {
	srv := newServer(t)
	token := srv.adminToken(t)

	body := bookingBody(2)
	body["check_out"] = checkIn.Add(-24 * time.Hour).Format(time.RFC3339)
	status, raw := srv.call(t, "POST", "/bookings", token, body)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	var envelope struct {
		Status string `json:"status"`
		Data   string `json:"data"`
	}
	decode(t, raw, &envelope)
	assert.Equal(t, "error", envelope.Status)
	assert.Contains(t, envelope.Data, "Invalid Dates")

	status, raw = srv.call(t, "GET", "/bookings", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "[]", string(raw))
}

func TestCreateBookingValidation(t *testing.T) {
	srv := newServer(t)
	token := srv.adminToken(t)

	body := bookingBody(2)
	delete(body, "guest_name")
	status, raw := srv.call(t, "POST", "/bookings", token, body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(raw), "GuestName")
}

func TestRejectedBookingLeavesActiveList(t *testing.T) {
	srv := newServer(t)
	token := srv.adminToken(t)

	status, raw := srv.call(t, "POST", "/bookings", token, bookingBody(3))
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var booking model.Booking
	decode(t, raw, &booking)
	assert.Equal(t, model.BookingPending, booking.Status)
	assert.Equal(t, "420", booking.Amount.String())

	status, raw = srv.call(t, "PATCH", "/bookings/"+booking.Id.Hex()+"/reject", token, fiber.Map{"reason": "maintenance window"})
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, raw = srv.call(t, "GET", "/bookings?filter=active", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var active []model.Booking
	decode(t, raw, &active)
	assert.Empty(t, active)

	status, raw = srv.call(t, "GET", "/bookings/"+booking.Id.Hex(), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var stored model.Booking
	decode(t, raw, &stored)
	assert.Equal(t, model.BookingRejected, stored.Status)
	assert.Equal(t, "maintenance window", stored.RejectionReason)

	status, _ = srv.call(t, "PATCH", "/bookings/"+booking.Id.Hex()+"/approve", token, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestApproveBookingCreatesJob(t *testing.T) {
	srv := newServer(t)
	token := srv.adminToken(t)

	status, raw := srv.call(t, "POST", "/bookings", token, bookingBody(3))
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var booking model.Booking
	decode(t, raw, &booking)

	status, raw = srv.call(t, "PATCH", "/bookings/"+booking.Id.Hex()+"/approve", token, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var approved struct {
		Booking model.Booking `json:"booking"`
		Job     *model.Job    `json:"job"`
	}
	decode(t, raw, &approved)
	assert.Equal(t, model.BookingApproved, approved.Booking.Status)
	require.NotNil(t, approved.Job)
	assert.Equal(t, model.JobTypeCleaning, approved.Job.Type)

	status, raw = srv.call(t, "GET", "/jobs?bookingId="+booking.Id.Hex(), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var jobs []model.Job
	decode(t, raw, &jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, approved.Job.Id, jobs[0].Id)
	assert.True(t, jobs[0].Start.Equal(booking.CheckOut))
}

func TestGetUnknownBooking(t *testing.T) {
	srv := newServer(t)
	status, raw := srv.call(t, "GET", "/bookings/665f1f77bcf86cd799439011", srv.adminToken(t), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, string(raw), "resource not found")
}
