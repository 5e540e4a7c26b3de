package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"property-ops/scheduling"
)

type scenario struct {
	name        string
	description string
	run         func(s *session) error
}

// session carries the authenticated client and run-unique identifiers so
// repeated runs against one server do not collide.
type session struct {
	api    API
	token  string
	suffix string
	day    time.Time
}

func newSession(api API, token string, now time.Time) *session {
	return &session{
		api:    api,
		token:  token,
		suffix: strings.Split(uuid.NewString(), "-")[0],
		day:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 30),
	}
}

func login(api API, user, password string) (string, error) {
	code, raw, err := api.Do(fiber.MethodPost, "/login", "", fiber.Map{"login": user, "password": password})
	if err != nil {
		return "", err
	}
	if err := expect(code, fiber.StatusOK, raw); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	var envelope struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Data == "" {
		return "", fmt.Errorf("login: no token in response %s", raw)
	}
	return envelope.Data, nil
}

func expect(code, want int, raw []byte) error {
	if code != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, code, raw)
	}
	return nil
}

func (s *session) call(method, path string, body interface{}, want int, target interface{}) ([]byte, error) {
	code, raw, err := s.api.Do(method, path, s.token, body)
	if err != nil {
		return nil, err
	}
	if err := expect(code, want, raw); err != nil {
		return raw, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if target != nil {
		if err := json.Unmarshal(raw, target); err != nil {
			return raw, fmt.Errorf("%s %s: decode: %w", method, path, err)
		}
	}
	return raw, nil
}

type bookingRef struct {
	Id              string `json:"id"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

func (s *session) bookingBody(nights int) fiber.Map {
	checkIn := s.day.Add(15 * time.Hour)
	return fiber.Map{
		"guest_name":    "Scenario Guest",
		"guest_email":   "guest@example.com",
		"property_id":   "scenario-" + s.suffix,
		"property_name": "Scenario Property",
		"check_in":      checkIn.Format(time.RFC3339),
		"check_out":     checkIn.AddDate(0, 0, nights).Add(-4 * time.Hour).Format(time.RFC3339),
		"guests":        2,
		"amount":        "300.00",
	}
}

func (s *session) createBooking() (bookingRef, error) {
	var booking bookingRef
	_, err := s.call(fiber.MethodPost, "/bookings", s.bookingBody(2), fiber.StatusCreated, &booking)
	return booking, err
}

func validBooking(s *session) error {
	booking, err := s.createBooking()
	if err != nil {
		return err
	}
	if booking.Status != "pending" {
		return fmt.Errorf("new booking has status %q", booking.Status)
	}
	return nil
}

func invalidDates(s *session) error {
	body := s.bookingBody(2)
	body["check_out"] = s.day.Format(time.RFC3339)
	raw, err := s.call(fiber.MethodPost, "/bookings", body, fiber.StatusUnprocessableEntity, nil)
	if err != nil {
		return err
	}
	if !strings.Contains(string(raw), "Invalid Dates") {
		return fmt.Errorf("missing Invalid Dates message: %s", raw)
	}
	return nil
}

func rejectBooking(s *session) error {
	booking, err := s.createBooking()
	if err != nil {
		return err
	}
	path := "/bookings/" + booking.Id
	if _, err := s.call(fiber.MethodPatch, path+"/reject", fiber.Map{"reason": "scenario"}, fiber.StatusOK, nil); err != nil {
		return err
	}

	var active []bookingRef
	if _, err := s.call(fiber.MethodGet, "/bookings?filter=active", nil, fiber.StatusOK, &active); err != nil {
		return err
	}
	for _, b := range active {
		if b.Id == booking.Id {
			return fmt.Errorf("rejected booking %s still listed as active", booking.Id)
		}
	}

	var stored bookingRef
	if _, err := s.call(fiber.MethodGet, path, nil, fiber.StatusOK, &stored); err != nil {
		return err
	}
	if stored.Status != "rejected" || stored.RejectionReason != "scenario" {
		return fmt.Errorf("booking %s stored as %q (%q)", booking.Id, stored.Status, stored.RejectionReason)
	}
	return nil
}

func approveBooking(s *session) error {
	booking, err := s.createBooking()
	if err != nil {
		return err
	}
	var approved struct {
		Booking bookingRef `json:"booking"`
		Job     *struct {
			Id string `json:"job_id"`
		} `json:"job"`
	}
	if _, err := s.call(fiber.MethodPatch, "/bookings/"+booking.Id+"/approve", nil, fiber.StatusOK, &approved); err != nil {
		return err
	}
	if approved.Booking.Status != "approved" || approved.Job == nil {
		return fmt.Errorf("approval returned status %q without a cleaning job", approved.Booking.Status)
	}

	var jobs []struct {
		Id string `json:"job_id"`
	}
	if _, err := s.call(fiber.MethodGet, "/jobs?bookingId="+booking.Id, nil, fiber.StatusOK, &jobs); err != nil {
		return err
	}
	if len(jobs) != 1 || jobs[0].Id != approved.Job.Id {
		return fmt.Errorf("expected job %s for booking, got %d jobs", approved.Job.Id, len(jobs))
	}
	return nil
}

func staffAssignment(s *session) error {
	var staff struct {
		Id string `json:"id"`
	}
	_, err := s.call(fiber.MethodPost, "/staff", fiber.Map{
		"name":          "Scenario Cleaner " + s.suffix,
		"role":          "cleaner",
		"skills":        []string{"housekeeping"},
		"login":         "scenario-" + s.suffix,
		"password":      "scenario-" + s.suffix,
		"working_hours": fiber.Map{"start": 8, "end": 20},
	}, fiber.StatusCreated, &staff)
	if err != nil {
		return err
	}

	start := s.day.AddDate(0, 0, 1).Add(10 * time.Hour)
	end := start.Add(2 * time.Hour)
	var job struct {
		Id     string `json:"job_id"`
		Status string `json:"status"`
	}
	_, err = s.call(fiber.MethodPost, "/jobs", fiber.Map{
		"property_id":   "scenario-" + s.suffix,
		"title":         "Scenario clean",
		"type":          "cleaning",
		"required_role": "cleaner",
		"start":         start.Format(time.RFC3339),
		"end":           end.Format(time.RFC3339),
	}, fiber.StatusCreated, &job)
	if err != nil {
		return err
	}

	var suggested struct {
		Suggestions []struct {
			StaffId string `json:"staff_id"`
		} `json:"suggestions"`
	}
	_, err = s.call(fiber.MethodPost, "/staff/suggestions", fiber.Map{
		"start":    start.Format(time.RFC3339),
		"end":      end.Format(time.RFC3339),
		"job_type": "cleaning",
	}, fiber.StatusOK, &suggested)
	if err != nil {
		return err
	}
	found := false
	for _, suggestion := range suggested.Suggestions {
		found = found || suggestion.StaffId == staff.Id
	}
	// A full list may rank other idle cleaners ahead of the new one.
	if !found && len(suggested.Suggestions) < scheduling.MaxSuggestions {
		return fmt.Errorf("staff %s missing from suggestions", staff.Id)
	}

	if _, err := s.call(fiber.MethodPost, "/jobs/"+job.Id+"/assign", fiber.Map{"staff_id": staff.Id}, fiber.StatusOK, &job); err != nil {
		return err
	}
	if job.Status != "assigned" {
		return fmt.Errorf("assigned job has status %q", job.Status)
	}
	return nil
}

var allScenarios = []scenario{
	{name: "valid-booking", description: "a well-formed booking is stored as pending", run: validBooking},
	{name: "invalid-dates", description: "check-out before check-in is refused with Invalid Dates", run: invalidDates},
	{name: "reject-booking", description: "a rejected booking leaves the active list", run: rejectBooking},
	{name: "approve-booking", description: "approving a booking schedules a cleaning job", run: approveBooking},
	{name: "staff-assignment", description: "a new cleaner is suggested and assigned to a job", run: staffAssignment},
}

func selectScenarios(only []string) ([]scenario, error) {
	if len(only) == 0 {
		return allScenarios, nil
	}
	var picked []scenario
	for _, name := range only {
		matched := false
		for _, sc := range allScenarios {
			if sc.name == name {
				picked = append(picked, sc)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
	}
	return picked, nil
}

type result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Error    string `json:"error,omitempty"`
	Duration int64  `json:"duration_ms"`
}

func runScenarios(s *session, picked []scenario) []result {
	results := make([]result, 0, len(picked))
	for _, sc := range picked {
		start := time.Now()
		err := sc.run(s)
		r := result{Name: sc.name, Passed: err == nil, Duration: time.Since(start).Milliseconds()}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}
