package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"property-ops/config"
	apperrors "property-ops/errors"
	"property-ops/handlers"
	"property-ops/middleware"
	"property-ops/model"
)

const WebhookSecretHeader = "X-Webhook-Secret"

// NewApp returns a fiber app whose unhandled errors use the JSON error envelope.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return apperrors.RaiseError(c, fe.Code, fe.Message, "")
			}
			return apperrors.RaiseInternalServerError(c, err.Error())
		},
	})
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Configuration, logger *logrus.Logger) {
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger, cfg.RequestIDHeader))

	//Public
	if cfg.Prometheus.Enabled {
		app.Get(cfg.Prometheus.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}
	app.Get("/health", h.Health)
	app.Post("/login", h.Login)
	app.Post("/webhooks/onboarding", middleware.SharedSecret(WebhookSecretHeader, cfg.WebhookSecret), h.OnboardStaff)

	api := app.Group("/", middleware.Authorize(cfg.SigningKey))
	managers := middleware.RequireRoles(model.RoleAdmin, model.RoleManager)
	admins := middleware.RequireRoles(model.RoleAdmin)

	//Bookings
	bookings := api.Group("/bookings")
	bookings.Get("/", h.GetBookings)
	bookings.Get("/:id", h.GetBooking)
	bookings.Post("/", h.CreateBooking)
	bookings.Patch("/:id/approve", managers, h.ApproveBooking)
	bookings.Patch("/:id/reject", managers, h.RejectBooking)

	//Jobs
	jobs := api.Group("/jobs")
	jobs.Get("/", h.GetJobs)
	jobs.Get("/:id", h.GetJob)
	jobs.Post("/", managers, h.CreateJob)
	jobs.Patch("/:id/status", h.UpdateJobStatus)
	jobs.Post("/:id/assign", managers, h.AssignJob)

	//Staff
	staff := api.Group("/staff")
	staff.Get("/", h.GetStaffList)
	staff.Post("/", admins, h.CreateStaff)
	staff.Post("/suggestions", managers, h.SuggestStaff)
	staff.Get("/:id", h.GetStaff)
	staff.Patch("/:id/availability", h.SetStaffAvailability)

	//Calendar
	calendar := api.Group("/calendar")
	calendar.Post("/conflicts", h.CheckConflicts)
	calendar.Get("/events", h.GetEvents)
	calendar.Post("/events", managers, h.CreateEvent)
	calendar.Patch("/events/:id", managers, h.UpdateEvent)

	//AI COO
	coo := api.Group("/ai", managers)
	coo.Post("/coo/bookings/:id/decide", h.DecideBooking)
	coo.Post("/audit/analyze", h.AnalyzeAudit)

	//Records
	api.Get("/notifications", h.GetNotifications)
	api.Get("/audit-logs", managers, h.GetAuditLogs)
	api.Get("/reports/summary", managers, h.GetSummaryReport)
}
