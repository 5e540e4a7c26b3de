package database

import (
	"context"
	"time"

	"property-ops/model"
)

type BookingFilter struct {
	Status        string
	ExcludeStatus string
	PropertyId    string
	CheckInFrom   time.Time
	CheckInTo     time.Time
}

// JobFilter selects jobs; From/To keep jobs whose window intersects [From, To).
type JobFilter struct {
	Status    string
	StaffId   string
	BookingId string
	From      time.Time
	To        time.Time
}

// EventFilter selects calendar events; From/To keep events whose window intersects [From, To).
type EventFilter struct {
	StaffId       string
	From          time.Time
	To            time.Time
	ExcludeStatus []string
}

// Store is the document store used by every service. Get* methods return an
// error wrapping errors.ErrNotFound when no document has the given id.
type Store interface {
	InsertBooking(ctx context.Context, booking model.Booking) error
	GetBooking(ctx context.Context, id string) (model.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error)
	UpdateBooking(ctx context.Context, booking model.Booking) error

	InsertJob(ctx context.Context, job model.Job) error
	GetJob(ctx context.Context, id string) (model.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error)
	UpdateJob(ctx context.Context, job model.Job) error

	InsertStaff(ctx context.Context, staff model.StaffMember) error
	GetStaff(ctx context.Context, id string) (model.StaffMember, error)
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	UpdateStaff(ctx context.Context, staff model.StaffMember) error
	IncrementCompletedJobs(ctx context.Context, staffId string) error

	InsertEvent(ctx context.Context, event model.CalendarEvent) error
	GetEvent(ctx context.Context, id string) (model.CalendarEvent, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, event model.CalendarEvent) error

	InsertNotification(ctx context.Context, notification model.Notification) error
	ListNotifications(ctx context.Context, recipientId string, limit int) ([]model.Notification, error)

	InsertAuditLog(ctx context.Context, entry model.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error)

	InsertUser(ctx context.Context, user model.UserData) error
	GetUserData(ctx context.Context, login string) (model.UserData, error)

	Close(ctx context.Context) error
}

func overlaps(start, end, from, to time.Time) bool {
	if !to.IsZero() && !start.Before(to) {
		return false
	}
	if !from.IsZero() && !end.After(from) {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
