package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"property-ops/ai"
	"property-ops/config"
	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/logging"
	"property-ops/middleware"
	"property-ops/scheduling"
	"property-ops/services"
)

type Handlers struct {
	cfg       *config.Configuration
	bookings  *services.BookingService
	jobs      *services.JobService
	staff     *services.StaffService
	calendar  *services.CalendarService
	reports   *services.ReportService
	auditor   *services.Auditor
	notifier  *services.Notifier
	suggester *scheduling.Suggester
	coo       *ai.COO
	analyst   *ai.AuditAnalyst
}

// New wires every service on top of store. llm and cache may be nil.
func New(cfg *config.Configuration, store database.Store, llm ai.Completer, cache ai.Cache) *Handlers {
	auditor := services.NewAuditor(store)
	notifier := services.NewNotifier(store)
	checker := scheduling.NewConflictChecker(store)
	jobs := services.NewJobService(store, checker, auditor, notifier)
	bookings := services.NewBookingService(store, jobs, auditor, notifier)

	return &Handlers{
		cfg:       cfg,
		bookings:  bookings,
		jobs:      jobs,
		staff:     services.NewStaffService(store, auditor),
		calendar:  services.NewCalendarService(store, checker, auditor),
		reports:   services.NewReportService(store),
		auditor:   auditor,
		notifier:  notifier,
		suggester: scheduling.NewSuggester(store),
		coo:       ai.NewCOO(bookings, llm, cache, auditor, notifier, ai.ThresholdsFrom(cfg.AICOO)),
		analyst:   ai.NewAuditAnalyst(auditor, llm),
	}
}

// Staff exposes the staff service for startup tasks such as the admin bootstrap.
func (h *Handlers) Staff() *services.StaffService {
	return h.staff
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"storage": h.cfg.StorageBackend,
		"ai":      h.cfg.OpenAI.Enabled(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// actor names the caller in audit logs.
func actor(c *fiber.Ctx) string {
	if name := middleware.CurrentIdentity(c).Username; name != "" {
		return name
	}
	return "anonymous"
}

func parseBody(c *fiber.Ctx, target interface{}, what string) error {
	if err := c.BodyParser(target); err != nil {
		return fmt.Errorf("%w: incorrect input for %s parameters: %v", apperrors.ErrValidation, what, err)
	}
	return nil
}

// fail logs unexpected errors and renders the mapped status. Scheduling
// conflicts also carry the overlapping events and suggestions.
func fail(c *fiber.Ctx, err error) error {
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":      "error",
			"message":     "conflict",
			"data":        err.Error(),
			"conflicts":   conflict.Result.Conflicts,
			"suggestions": conflict.Result.Suggestions,
		})
	}
	log := logging.FromContext(c.UserContext()).WithError(err)
	if status := apperrors.StatusFor(err); status >= fiber.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}
	return apperrors.RaiseFor(c, err)
}

// queryTime parses an optional RFC3339 query parameter.
func queryTime(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339", apperrors.ErrValidation, key)
	}
	return t, nil
}

func queryLimit(c *fiber.Ctx) int {
	return c.QueryInt("limit", 0)
}
