package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// DecideBooking runs the AI COO on a booking; ?apply=true acts on approve and reject outcomes.
func (h *Handlers) DecideBooking(c *fiber.Ctx) error {
	result, err := h.coo.Decide(c.UserContext(), actor(c), c.Params("id"), c.QueryBool("apply"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (h *Handlers) AnalyzeAudit(c *fiber.Ctx) error {
	analysis, err := h.analyst.Analyze(c.UserContext(), queryLimit(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(analysis)
}
