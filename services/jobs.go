package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/logging"
	"property-ops/metrics"
	"property-ops/model"
	"property-ops/scheduling"
)

type CreateJobInput struct {
	BookingId    string          `json:"booking_id"`
	PropertyId   string          `json:"property_id" validate:"required"`
	Title        string          `json:"title" validate:"required"`
	Type         string          `json:"type" validate:"required,oneof=cleaning maintenance inspection laundry general"`
	RequiredRole string          `json:"required_role"`
	Start        time.Time       `json:"start" validate:"required"`
	End          time.Time       `json:"end" validate:"required"`
	Location     *model.GeoPoint `json:"location"`
}

type AssignJobInput struct {
	StaffId string `json:"staff_id" validate:"required"`
	Force   bool   `json:"force"`
}

// ConflictError carries the overlapping events that blocked a scheduling write.
type ConflictError struct {
	Result scheduling.ConflictResult
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%d overlapping calendar event(s): %v", len(e.Result.Conflicts), apperrors.ErrConflict)
}

func (e *ConflictError) Unwrap() error {
	return apperrors.ErrConflict
}

type JobService struct {
	store    database.Store
	checker  *scheduling.ConflictChecker
	auditor  *Auditor
	notifier *Notifier
	now      func() time.Time
}

func NewJobService(store database.Store, checker *scheduling.ConflictChecker, auditor *Auditor, notifier *Notifier) *JobService {
	return &JobService{store: store, checker: checker, auditor: auditor, notifier: notifier, now: time.Now}
}

func (s *JobService) Create(ctx context.Context, actor string, in CreateJobInput) (model.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if err := ValidateStruct(in); err != nil {
		return model.Job{}, err
	}
	if !in.End.After(in.Start) {
		return model.Job{}, fmt.Errorf("job end is not after start: %w", apperrors.ErrInvalidDates)
	}

	now := s.now().UTC()
	job := model.Job{
		Id:           primitive.NewObjectID(),
		BookingId:    in.BookingId,
		PropertyId:   in.PropertyId,
		Title:        in.Title,
		Type:         in.Type,
		Status:       model.JobPending,
		RequiredRole: strings.TrimSpace(in.RequiredRole),
		Start:        in.Start.UTC(),
		End:          in.End.UTC(),
		Location:     in.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertJob(ctx, job); err != nil {
		return model.Job{}, fmt.Errorf("cannot save job: %w", err)
	}
	s.auditor.Record(ctx, actor, "job.created", "job", job.Id.Hex(), map[string]interface{}{
		"booking_id": job.BookingId,
		"type":       job.Type,
	})
	return job, nil
}

// CreateForBooking creates the turnover cleaning job that follows a stay.
func (s *JobService) CreateForBooking(ctx context.Context, actor string, booking model.Booking) (model.Job, error) {
	return s.Create(ctx, actor, CreateJobInput{
		BookingId:    booking.Id.Hex(),
		PropertyId:   booking.PropertyId,
		Title:        "Turnover cleaning: " + propertyLabel(booking),
		Type:         model.JobTypeCleaning,
		RequiredRole: "cleaner",
		Start:        booking.CheckOut,
		End:          booking.CheckOut.Add(TurnoverDuration),
		Location:     booking.PropertyLoc,
	})
}

func (s *JobService) Get(ctx context.Context, id string) (model.Job, error) {
	return s.store.GetJob(ctx, id)
}

func (s *JobService) List(ctx context.Context, filter database.JobFilter) ([]model.Job, error) {
	return s.store.ListJobs(ctx, filter)
}

// Assign moves a pending job to assigned, after the transition guard, the role
// check and (unless forced) a calendar conflict check for the staff member.
func (s *JobService) Assign(ctx context.Context, actor, id string, in AssignJobInput) (model.Job, error) {
	if err := ValidateStruct(in); err != nil {
		return model.Job{}, err
	}
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return model.Job{}, err
	}
	staff, err := s.store.GetStaff(ctx, in.StaffId)
	if err != nil {
		return model.Job{}, err
	}
	if !staff.Available {
		return model.Job{}, fmt.Errorf("staff member %v is unavailable: %w", staff.Name, apperrors.ErrInvalidState)
	}
	if err := s.guard(job, model.JobAssigned, &staff); err != nil {
		return model.Job{}, err
	}

	if !in.Force {
		result, err := s.checker.Check(ctx, scheduling.ConflictRequest{StaffId: in.StaffId, Start: job.Start, End: job.End})
		if err != nil {
			return model.Job{}, err
		}
		if result.HasConflict {
			return model.Job{}, &ConflictError{Result: result}
		}
	}

	event := model.CalendarEvent{
		Id:         primitive.NewObjectID(),
		Title:      job.Title,
		StaffId:    in.StaffId,
		PropertyId: job.PropertyId,
		JobId:      job.Id.Hex(),
		Start:      job.Start,
		End:        job.End,
		Status:     model.EventScheduled,
	}
	if err := s.store.InsertEvent(ctx, event); err != nil {
		return model.Job{}, fmt.Errorf("cannot create calendar event: %w", err)
	}

	job.Status = model.JobAssigned
	job.AssignedStaffId = in.StaffId
	job.CalendarEventId = event.Id.Hex()
	job.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateJob(ctx, job); err != nil {
		event.Status = model.EventCancelled
		if cancelErr := s.store.UpdateEvent(ctx, event); cancelErr != nil {
			logging.FromContext(ctx).WithError(cancelErr).WithField("event_id", event.Id.Hex()).Warn("cannot release calendar event")
		}
		return model.Job{}, fmt.Errorf("cannot assign job: %w", err)
	}

	s.auditor.Record(ctx, actor, "job.assigned", "job", job.Id.Hex(), map[string]interface{}{
		"staff_id": in.StaffId,
		"forced":   in.Force,
	})
	s.notifier.Notify(ctx, in.StaffId, "New job assigned",
		fmt.Sprintf("%s on %s", job.Title, job.Start.Format("Mon 02 Jan 15:04")))
	return job, nil
}

// UpdateStatus applies a status change that does not assign anyone.
func (s *JobService) UpdateStatus(ctx context.Context, actor, id, to string) (model.Job, error) {
	to = strings.ToLower(strings.TrimSpace(to))
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return model.Job{}, err
	}
	if to == model.JobAssigned {
		return model.Job{}, fmt.Errorf("job %v needs a staff member to become assigned: %w", id, apperrors.ErrInvalidTransition)
	}
	if IsTerminal(job.Status) {
		metrics.RecordJobTransition(job.Status, to, false)
		return model.Job{}, fmt.Errorf("job %v is already %s: %w", id, job.Status, apperrors.ErrInvalidTransition)
	}
	if err := s.guard(job, to, nil); err != nil {
		return model.Job{}, err
	}

	from := job.Status
	previousStaff := job.AssignedStaffId
	eventId := job.CalendarEventId
	job.Status = to
	if to == model.JobPending {
		job.AssignedStaffId = ""
		job.CalendarEventId = ""
	}
	job.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateJob(ctx, job); err != nil {
		return model.Job{}, fmt.Errorf("cannot update job status: %w", err)
	}

	s.syncEvent(ctx, job.Id.Hex(), eventId, to)
	if to == model.JobCompleted && previousStaff != "" {
		if err := s.store.IncrementCompletedJobs(ctx, previousStaff); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			logging.FromContext(ctx).WithError(err).Warn("cannot update staff completed job counter")
		}
	}

	s.auditor.Record(ctx, actor, "job.status_changed", "job", job.Id.Hex(), map[string]interface{}{
		"from": from,
		"to":   to,
	})
	if previousStaff != "" && (to == model.JobCancelled || to == model.JobPending) {
		s.notifier.Notify(ctx, previousStaff, "Job removed from your schedule", job.Title)
	}
	return job, nil
}

func (s *JobService) guard(job model.Job, to string, assignee *model.StaffMember) error {
	err := CheckTransition(job, to, assignee)
	metrics.RecordJobTransition(job.Status, to, err == nil)
	return err
}

// syncEvent mirrors the job status onto its calendar event. Failures are logged.
func (s *JobService) syncEvent(ctx context.Context, jobId, eventId, to string) {
	if eventId == "" {
		return
	}
	var status string
	switch to {
	case model.JobInProgress:
		status = model.EventInProgress
	case model.JobCompleted:
		status = model.EventCompleted
	case model.JobCancelled, model.JobPending:
		status = model.EventCancelled
	default:
		return
	}
	event, err := s.store.GetEvent(ctx, eventId)
	if err == nil {
		event.Status = status
		err = s.store.UpdateEvent(ctx, event)
	}
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("job_id", jobId).Warn("cannot sync calendar event")
	}
}
