package handlers

import (
	"github.com/gofiber/fiber/v2"

	"property-ops/model"
	"property-ops/services"
)

func (h *Handlers) CreateBooking(c *fiber.Ctx) error {
	input := new(services.CreateBookingInput)
	if err := parseBody(c, input, "booking"); err != nil {
		return fail(c, err)
	}

	booking, err := h.bookings.Create(c.UserContext(), actor(c), *input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetBookings lists bookings; ?filter=active hides rejected ones.
func (h *Handlers) GetBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.List(c.UserContext(), c.Query("status"), c.Query("filter") == "active")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bookings)
}

func (h *Handlers) GetBooking(c *fiber.Ctx) error {
	booking, err := h.bookings.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}

func (h *Handlers) ApproveBooking(c *fiber.Ctx) error {
	booking, job, err := h.bookings.Approve(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(struct {
		Booking model.Booking `json:"booking"`
		Job     *model.Job    `json:"job,omitempty"`
	}{booking, job})
}

func (h *Handlers) RejectBooking(c *fiber.Ctx) error {
	type Rejection struct {
		Reason string `json:"reason"`
	}
	rejection := new(Rejection)
	if len(c.Body()) > 0 {
		if err := parseBody(c, rejection, "rejection"); err != nil {
			return fail(c, err)
		}
	}

	booking, err := h.bookings.Reject(c.UserContext(), actor(c), c.Params("id"), rejection.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}
