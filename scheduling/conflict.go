package scheduling

import (
	"context"
	"fmt"
	"time"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/metrics"
	"property-ops/model"
)

// ConflictRequest describes a proposed window for one staff member. ExcludeEventId
// skips the event being edited in place.
type ConflictRequest struct {
	StaffId        string    `json:"staff_id" validate:"required"`
	Start          time.Time `json:"start" validate:"required"`
	End            time.Time `json:"end" validate:"required"`
	ExcludeEventId string    `json:"exclude_event_id,omitempty"`
}

type ConflictResult struct {
	HasConflict bool                  `json:"has_conflict"`
	Conflicts   []model.CalendarEvent `json:"conflicts"`
	Suggestions []string              `json:"suggestions"`
}

// Overlaps is the half-open interval test: touching windows do not overlap.
func Overlaps(existingStart, existingEnd, proposedStart, proposedEnd time.Time) bool {
	return existingStart.Before(proposedEnd) && existingEnd.After(proposedStart)
}

// DetectConflicts returns the non-terminal events of staffId that overlap [start, end).
func DetectConflicts(existing []model.CalendarEvent, req ConflictRequest) []model.CalendarEvent {
	conflicts := []model.CalendarEvent{}
	for _, e := range existing {
		if e.StaffId != req.StaffId || e.Terminal() {
			continue
		}
		if req.ExcludeEventId != "" && e.Id.Hex() == req.ExcludeEventId {
			continue
		}
		if Overlaps(e.Start, e.End, req.Start, req.End) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

func Suggestions(conflicts []model.CalendarEvent) []string {
	if len(conflicts) == 0 {
		return []string{}
	}
	latest := conflicts[0].End
	for _, c := range conflicts[1:] {
		if c.End.After(latest) {
			latest = c.End
		}
	}
	return []string{
		fmt.Sprintf("Reschedule to start after %s", latest.Format(time.RFC3339)),
		"Assign another staff member",
	}
}

type EventLister interface {
	ListEvents(ctx context.Context, filter database.EventFilter) ([]model.CalendarEvent, error)
}

type ConflictChecker struct {
	events EventLister
}

func NewConflictChecker(events EventLister) *ConflictChecker {
	return &ConflictChecker{events: events}
}

func (c *ConflictChecker) Check(ctx context.Context, req ConflictRequest) (ConflictResult, error) {
	if !req.End.After(req.Start) {
		return ConflictResult{}, fmt.Errorf("%w: end must be after start", apperrors.ErrValidation)
	}
	existing, err := c.events.ListEvents(ctx, database.EventFilter{
		StaffId:       req.StaffId,
		From:          req.Start,
		To:            req.End,
		ExcludeStatus: []string{model.EventCompleted, model.EventCancelled},
	})
	if err != nil {
		return ConflictResult{}, fmt.Errorf("cannot load calendar events: %w", err)
	}

	conflicts := DetectConflicts(existing, req)
	metrics.RecordConflictCheck(len(conflicts) > 0)
	return ConflictResult{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
		Suggestions: Suggestions(conflicts),
	}, nil
}
