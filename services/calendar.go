package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/model"
	"property-ops/scheduling"
)

type CreateEventInput struct {
	Title      string    `json:"title" validate:"required"`
	StaffId    string    `json:"staff_id" validate:"required"`
	PropertyId string    `json:"property_id"`
	JobId      string    `json:"job_id"`
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required"`
	Force      bool      `json:"force"`
}

// UpdateEventInput edits an event in place; nil fields are left unchanged.
type UpdateEventInput struct {
	Title  *string    `json:"title"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
	Status *string    `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Force  bool       `json:"force"`
}

type CalendarService struct {
	store   database.Store
	checker *scheduling.ConflictChecker
	auditor *Auditor
}

func NewCalendarService(store database.Store, checker *scheduling.ConflictChecker, auditor *Auditor) *CalendarService {
	return &CalendarService{store: store, checker: checker, auditor: auditor}
}

func (s *CalendarService) Check(ctx context.Context, req scheduling.ConflictRequest) (scheduling.ConflictResult, error) {
	if err := ValidateStruct(req); err != nil {
		return scheduling.ConflictResult{}, err
	}
	return s.checker.Check(ctx, req)
}

func (s *CalendarService) Create(ctx context.Context, actor string, in CreateEventInput) (model.CalendarEvent, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := ValidateStruct(in); err != nil {
		return model.CalendarEvent{}, err
	}
	if !in.End.After(in.Start) {
		return model.CalendarEvent{}, fmt.Errorf("event end is not after start: %w", apperrors.ErrInvalidDates)
	}
	if _, err := s.store.GetStaff(ctx, in.StaffId); err != nil {
		return model.CalendarEvent{}, err
	}
	if err := s.ensureFree(ctx, in.StaffId, in.Start, in.End, "", in.Force); err != nil {
		return model.CalendarEvent{}, err
	}

	event := model.CalendarEvent{
		Id:         primitive.NewObjectID(),
		Title:      in.Title,
		StaffId:    in.StaffId,
		PropertyId: in.PropertyId,
		JobId:      in.JobId,
		Start:      in.Start.UTC(),
		End:        in.End.UTC(),
		Status:     model.EventScheduled,
	}
	if err := s.store.InsertEvent(ctx, event); err != nil {
		return model.CalendarEvent{}, fmt.Errorf("cannot save calendar event: %w", err)
	}
	s.auditor.Record(ctx, actor, "calendar.created", "calendar_event", event.Id.Hex(), map[string]interface{}{
		"staff_id": event.StaffId,
		"forced":   in.Force,
	})
	return event, nil
}

func (s *CalendarService) Update(ctx context.Context, actor, id string, in UpdateEventInput) (model.CalendarEvent, error) {
	if err := ValidateStruct(in); err != nil {
		return model.CalendarEvent{}, err
	}
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	wasTerminal := event.Terminal()
	if in.Title != nil {
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Start != nil {
		event.Start = in.Start.UTC()
	}
	if in.End != nil {
		event.End = in.End.UTC()
	}
	if in.Status != nil {
		event.Status = *in.Status
	}
	if !event.End.After(event.Start) {
		return model.CalendarEvent{}, fmt.Errorf("event end is not after start: %w", apperrors.ErrInvalidDates)
	}
	// Moving or reactivating an event must not double-book its staff member.
	if !event.Terminal() && (in.Start != nil || in.End != nil || wasTerminal) {
		if err := s.ensureFree(ctx, event.StaffId, event.Start, event.End, id, in.Force); err != nil {
			return model.CalendarEvent{}, err
		}
	}
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return model.CalendarEvent{}, fmt.Errorf("cannot update calendar event: %w", err)
	}
	s.auditor.Record(ctx, actor, "calendar.updated", "calendar_event", id, nil)
	return event, nil
}

func (s *CalendarService) List(ctx context.Context, filter database.EventFilter) ([]model.CalendarEvent, error) {
	return s.store.ListEvents(ctx, filter)
}

func (s *CalendarService) ensureFree(ctx context.Context, staffId string, start, end time.Time, excludeId string, force bool) error {
	if force {
		return nil
	}
	result, err := s.checker.Check(ctx, scheduling.ConflictRequest{
		StaffId:        staffId,
		Start:          start,
		End:            end,
		ExcludeEventId: excludeId,
	})
	if err != nil {
		return err
	}
	if result.HasConflict {
		return &ConflictError{Result: result}
	}
	return nil
}
