package handlers

import (
	"github.com/gofiber/fiber/v2"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/middleware"
	"property-ops/services"
)

func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	input := new(services.CreateJobInput)
	if err := parseBody(c, input, "job"); err != nil {
		return fail(c, err)
	}

	job, err := h.jobs.Create(c.UserContext(), actor(c), *input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// GetJobs lists jobs. Staff accounts only see their own assignments.
func (h *Handlers) GetJobs(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return fail(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return fail(c, err)
	}
	filter := database.JobFilter{
		Status:    c.Query("status"),
		StaffId:   c.Query("staffId"),
		BookingId: c.Query("bookingId"),
		From:      from,
		To:        to,
	}
	if identity := middleware.CurrentIdentity(c); !identity.IsManager() {
		filter.StaffId = identity.StaffId
		if filter.StaffId == "" {
			return c.JSON([]interface{}{})
		}
	}

	jobs, err := h.jobs.List(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(jobs)
}

// GetJob returns a job. Staff accounts may only read jobs assigned to them.
func (h *Handlers) GetJob(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if identity := middleware.CurrentIdentity(c); !identity.IsManager() {
		if identity.StaffId == "" || job.AssignedStaffId != identity.StaffId {
			return apperrors.RaisePermissionsError(c, "job is not assigned to you")
		}
	}
	return c.JSON(job)
}

// UpdateJobStatus is open to managers and to the staff member the job is assigned to.
func (h *Handlers) UpdateJobStatus(c *fiber.Ctx) error {
	type StatusUpdate struct {
		Status string `json:"status"`
	}
	update := new(StatusUpdate)
	if err := parseBody(c, update, "job status"); err != nil {
		return fail(c, err)
	}

	identity := middleware.CurrentIdentity(c)
	if !identity.IsManager() {
		job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if identity.StaffId == "" || job.AssignedStaffId != identity.StaffId {
			return apperrors.RaisePermissionsError(c, "job is not assigned to you")
		}
	}

	job, err := h.jobs.UpdateStatus(c.UserContext(), actor(c), c.Params("id"), update.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(job)
}

func (h *Handlers) AssignJob(c *fiber.Ctx) error {
	input := new(services.AssignJobInput)
	if err := parseBody(c, input, "assignment"); err != nil {
		return fail(c, err)
	}

	job, err := h.jobs.Assign(c.UserContext(), actor(c), c.Params("id"), *input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(job)
}
