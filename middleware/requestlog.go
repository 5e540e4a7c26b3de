package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"property-ops/logging"
	"property-ops/metrics"
)

// RequestLogger tags each request with an id, puts a request-scoped logrus
// entry on the user context and records the outcome.
func RequestLogger(logger *logrus.Logger, idHeader string) fiber.Handler {
	if idHeader == "" {
		idHeader = fiber.HeaderXRequestID
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestId := c.Get(idHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set(idHeader, requestId)

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestId,
			"method":     c.Method(),
			"path":       c.Path(),
		})
		c.SetUserContext(logging.ContextWithLogger(c.UserContext(), entry))

		err := c.Next()
		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		metrics.RecordRequest(c.Route().Path, c.Method(), status, elapsed)

		fields := logrus.Fields{"status": status, "latency_ms": elapsed.Milliseconds()}
		if user := CurrentIdentity(c).Username; user != "" {
			fields["user"] = user
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.WithFields(fields).Error("request failed")
		case status >= fiber.StatusBadRequest:
			entry.WithFields(fields).Warn("request rejected")
		default:
			entry.WithFields(fields).Info("request completed")
		}
		return nil
	}
}
