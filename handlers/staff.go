package handlers

import (
	"github.com/gofiber/fiber/v2"

	apperrors "property-ops/errors"
	"property-ops/middleware"
	"property-ops/scheduling"
	"property-ops/services"
)

func (h *Handlers) CreateStaff(c *fiber.Ctx) error {
	input := new(services.CreateStaffInput)
	if err := parseBody(c, input, "staff"); err != nil {
		return fail(c, err)
	}

	staff, err := h.staff.CreateAccount(c.UserContext(), actor(c), *input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(staff)
}

func (h *Handlers) GetStaffList(c *fiber.Ctx) error {
	staff, err := h.staff.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(staff)
}

func (h *Handlers) GetStaff(c *fiber.Ctx) error {
	staff, err := h.staff.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(staff)
}

// SetStaffAvailability is open to managers and to the staff member themselves.
func (h *Handlers) SetStaffAvailability(c *fiber.Ctx) error {
	type Availability struct {
		Available *bool `json:"available"`
	}
	input := new(Availability)
	if err := parseBody(c, input, "availability"); err != nil {
		return fail(c, err)
	}
	if input.Available == nil {
		return apperrors.RaiseBadRequestError(c, "available is required")
	}

	identity := middleware.CurrentIdentity(c)
	if !identity.IsManager() && identity.StaffId != c.Params("id") {
		return apperrors.RaisePermissionsError(c, "cannot change another staff member's availability")
	}

	staff, err := h.staff.SetAvailability(c.UserContext(), actor(c), c.Params("id"), *input.Available)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(staff)
}

func (h *Handlers) SuggestStaff(c *fiber.Ctx) error {
	req := new(scheduling.SuggestionRequest)
	if err := parseBody(c, req, "suggestion"); err != nil {
		return fail(c, err)
	}
	if err := services.ValidateStruct(req); err != nil {
		return fail(c, err)
	}

	suggestions, err := h.suggester.Suggest(c.UserContext(), *req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

func (h *Handlers) OnboardStaff(c *fiber.Ctx) error {
	input := new(services.OnboardingInput)
	if err := parseBody(c, input, "onboarding"); err != nil {
		return fail(c, err)
	}

	staff, err := h.staff.Onboard(c.UserContext(), *input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(staff)
}
