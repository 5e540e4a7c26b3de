package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "property-ops/errors"
	"property-ops/middleware"
	"property-ops/services"
)

// GetNotifications returns the caller's inbox. Managers may read any
// recipient, including the shared admin inbox.
func (h *Handlers) GetNotifications(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)
	recipient := c.Query("recipientId")
	switch {
	case identity.IsManager():
		if recipient == "" {
			recipient = services.AdminRecipient
		}
	case recipient == "" || recipient == identity.StaffId:
		recipient = identity.StaffId
	default:
		return apperrors.RaisePermissionsError(c, "cannot read another recipient's notifications")
	}
	if recipient == "" {
		return c.JSON([]interface{}{})
	}

	notifications, err := h.notifier.List(c.UserContext(), recipient, queryLimit(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(notifications)
}

func (h *Handlers) GetAuditLogs(c *fiber.Ctx) error {
	logs, err := h.auditor.Recent(c.UserContext(), queryLimit(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(logs)
}

// GetSummaryReport defaults to the last 30 days.
func (h *Handlers) GetSummaryReport(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return fail(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return fail(c, err)
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	report, err := h.reports.Summary(c.UserContext(), from, to)
	if err != nil {
		return fail(c, fmt.Errorf("summary %s..%s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), err))
	}
	return c.JSON(report)
}
