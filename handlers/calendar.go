package handlers

import (
	"github.com/gofiber/fiber/v2"

	"property-ops/database"
	"property-ops/model"
	"property-ops/scheduling"
	"property-ops/services"
)

func (h *Handlers) CheckConflicts(c *fiber.Ctx) error {
	req := new(scheduling.ConflictRequest)
	if err := parseBody(c, req, "conflict check"); err != nil {
		return fail(c, err)
	}

	result, err := h.calendar.Check(c.UserContext(), *req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (h *Handlers) CreateEvent(c *fiber.Ctx) error {
	input := new(services.CreateEventInput)
	if err := parseBody(c, input, "calendar event"); err != nil {
		return fail(c, err)
	}

	event, err := h.calendar.Create(c.UserContext(), actor(c), *input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetEvents lists events; cancelled ones are hidden unless ?includeCancelled=true.
func (h *Handlers) GetEvents(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return fail(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return fail(c, err)
	}
	filter := database.EventFilter{StaffId: c.Query("staffId"), From: from, To: to}
	if !c.QueryBool("includeCancelled") {
		filter.ExcludeStatus = []string{model.EventCancelled}
	}

	events, err := h.calendar.List(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(events)
}

func (h *Handlers) UpdateEvent(c *fiber.Ctx) error {
	input := new(services.UpdateEventInput)
	if err := parseBody(c, input, "calendar event"); err != nil {
		return fail(c, err)
	}

	event, err := h.calendar.Update(c.UserContext(), actor(c), c.Params("id"), *input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(event)
}
