package handlers_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"property-ops/config"
	"property-ops/database"
	"property-ops/handlers"
	"property-ops/router"
)

const (
	adminLogin    = "fake_admin"
	adminPassword = "admin-password"
	webhookSecret = "onboarding-secret"
)

var checkIn = time.Date(2025, time.July, 10, 15, 0, 0, 0, time.UTC)

type server struct {
	app   *fiber.App
	store *database.LocalStore
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		StorageBackend:  config.StorageLocal,
		SigningKey:      "test-signing-key",
		TokenTTL:        time.Hour,
		RequestIDHeader: "X-Request-ID",
		WebhookSecret:   webhookSecret,
		Prometheus:      config.PrometheusOptions{Enabled: true, Path: "/metrics"},
		AICOO: config.AICOOOptions{
			MaxAutoApproveNights: 14,
			MaxAutoApproveAmount: "5000",
			MaxGuests:            10,
		},
	}
}

func newServer(t *testing.T) *server {
	t.Helper()
	cfg := testConfig()
	store, err := database.NewLocalStore("")
	require.NoError(t, err)

	h := handlers.New(cfg, store, nil, nil)
	_, err = h.Staff().EnsureAdmin(context.Background(), adminLogin, adminPassword)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app := router.NewApp()
	router.SetupRoutes(app, h, cfg, logger)
	return &server{app: app, store: store}
}

// call sends a JSON request and returns the status and raw body.
func (s *server) call(t *testing.T, method, route, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, route, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, raw
}

func (s *server) login(t *testing.T, login, password string) string {
	t.Helper()
	status, raw := s.call(t, "POST", "/login", "", fiber.Map{"login": login, "password": password})
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var envelope struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.NotEmpty(t, envelope.Data)
	return envelope.Data
}

func (s *server) adminToken(t *testing.T) string {
	return s.login(t, adminLogin, adminPassword)
}

func decode(t *testing.T, raw []byte, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, target), string(raw))
}

func bookingBody(nights int) fiber.Map {
	return fiber.Map{
		"guest_name":    "Ada Lovelace",
		"guest_email":   "ada@example.com",
		"property_id":   "harbour-loft",
		"property_name": "Harbour Loft",
		"check_in":      checkIn.Format(time.RFC3339),
		"check_out":     checkIn.AddDate(0, 0, nights).Add(-4 * time.Hour).Format(time.RFC3339),
		"guests":        2,
		"amount":        "420.00",
	}
}

func staffBody(name, login, role string) fiber.Map {
	return fiber.Map{
		"name":          name,
		"role":          role,
		"skills":        []string{"housekeeping"},
		"login":         login,
		"password":      "staff-password",
		"working_hours": fiber.Map{"start": 8, "end": 20},
	}
}

func newJSONRequest(t *testing.T, method, route, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, route, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}
