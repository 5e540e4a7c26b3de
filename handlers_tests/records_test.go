package handlers_tests

import (
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-ops/ai"
	"property-ops/model"
)

func TestDecideBookingWithApply(t *testing.T) {
	srv := newServer(t)
	token := srv.adminToken(t)

	status, raw := srv.call(t, "POST", "/bookings", token, bookingBody(3))
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var booking model.Booking
	decode(t, raw, &booking)

	status, raw = srv.call(t, "POST", "/ai/coo/bookings/"+booking.Id.Hex()+"/decide?apply=true", token, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var result ai.DecisionResult
	decode(t, raw, &result)
	assert.Equal(t, ai.OutcomeApprove, result.Decision.Outcome)
	assert.Equal(t, ai.SourceHeuristic, result.Decision.Source)
	assert.True(t, result.Applied)
	assert.Equal(t, model.BookingApproved, result.Booking.Status)
	require.NotNil(t, result.Job)

	status, raw = srv.call(t, "POST", "/ai/audit/analyze", token, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var analysis ai.AuditAnalysis
	decode(t, raw, &analysis)
	assert.Positive(t, analysis.Entries)
	assert.Contains(t, analysis.Summary, "ai.decision")
}

func TestDecideLongStayEscalates(t *testing.T) {
	srv := newServer(t)
	token := srv.adminToken(t)

	status, raw := srv.call(t, "POST", "/bookings", token, bookingBody(20))
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var booking model.Booking
	decode(t, raw, &booking)

	status, raw = srv.call(t, "POST", "/ai/coo/bookings/"+booking.Id.Hex()+"/decide?apply=true", token, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var result ai.DecisionResult
	decode(t, raw, &result)
	assert.Equal(t, ai.OutcomeEscalate, result.Decision.Outcome)
	assert.False(t, result.Applied)
	assert.Equal(t, model.BookingPending, result.Booking.Status)

	status, raw = srv.call(t, "GET", "/notifications", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var inbox []model.Notification
	decode(t, raw, &inbox)
	require.NotEmpty(t, inbox)
	assert.Equal(t, "Booking needs review", inbox[0].Title)
}

func TestOnboardingWebhook(t *testing.T) {
	srv := newServer(t)
	payload := `{"name":"Eve Inspect","role":"inspector","skills":["quality audit"],"source":"typeform"}`

	tests := []struct {
		description  string
		secret       string
		expectedCode int
	}{
		{"missing secret", "", fiber.StatusUnauthorized},
		{"wrong secret", "guess", fiber.StatusUnauthorized},
		{"valid secret", webhookSecret, fiber.StatusCreated},
	}
	for _, test := range tests {
		req := newJSONRequest(t, "POST", "/webhooks/onboarding", payload)
		if test.secret != "" {
			req.Header.Set("X-Webhook-Secret", test.secret)
		}
		res, err := srv.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)
	}

	status, raw := srv.call(t, "GET", "/staff", srv.adminToken(t), nil)
	require.Equal(t, fiber.StatusOK, status)
	var staff []model.StaffMember
	decode(t, raw, &staff)
	require.Len(t, staff, 1)
	assert.Equal(t, "inspector", staff[0].Role)
	assert.Empty(t, staff[0].UserId)
}

func TestSummaryReport(t *testing.T) {
	srv := newServer(t)
	token := srv.adminToken(t)

	for _, nights := range []int{2, 3} {
		status, raw := srv.call(t, "POST", "/bookings", token, bookingBody(nights))
		require.Equal(t, fiber.StatusCreated, status, string(raw))
		var booking model.Booking
		decode(t, raw, &booking)
		if nights == 2 {
			status, raw = srv.call(t, "PATCH", "/bookings/"+booking.Id.Hex()+"/approve", token, nil)
			require.Equal(t, fiber.StatusOK, status, string(raw))
		}
	}

	from := checkIn.AddDate(0, 0, -1).Format(time.RFC3339)
	to := checkIn.AddDate(0, 0, 10).Format(time.RFC3339)
	status, raw := srv.call(t, "GET", "/reports/summary?from="+from+"&to="+to, token, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var report model.Report
	decode(t, raw, &report)
	assert.Equal(t, map[string]int{"approved": 1, "pending": 1}, report.BookingsByStatus)
	assert.Equal(t, "420.00", report.Revenue)
	assert.Equal(t, "210.00", report.AverageNightly)
	assert.Equal(t, map[string]int{"pending": 1}, report.JobsByStatus)

	status, _ = srv.call(t, "GET", "/reports/summary?from="+to+"&to="+from, token, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t)
	status, _ := srv.call(t, "GET", "/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	status, raw := srv.call(t, "GET", "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, strings.Contains(string(raw), "propops_http_requests_total"))
}
