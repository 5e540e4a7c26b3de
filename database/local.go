package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	apperrors "property-ops/errors"
	"property-ops/model"
)

type localData struct {
	Bookings      map[string]model.Booking       `json:"bookings"`
	Jobs          map[string]model.Job           `json:"jobs"`
	Staff         map[string]model.StaffMember   `json:"staff"`
	Events        map[string]model.CalendarEvent `json:"calendar_events"`
	Notifications []model.Notification           `json:"notifications"`
	AuditLogs     []model.AuditLog               `json:"audit_logs"`
	Users         map[string]model.UserData      `json:"users"`
}

func newLocalData() localData {
	return localData{
		Bookings:      map[string]model.Booking{},
		Jobs:          map[string]model.Job{},
		Staff:         map[string]model.StaffMember{},
		Events:        map[string]model.CalendarEvent{},
		Notifications: []model.Notification{},
		AuditLogs:     []model.AuditLog{},
		Users:         map[string]model.UserData{},
	}
}

// LocalStore keeps every collection in memory and, when a path is set,
// rewrites the whole JSON file after each write.
type LocalStore struct {
	mu   sync.RWMutex
	path string
	data localData
}

func NewLocalStore(path string) (*LocalStore, error) {
	s := &LocalStore{path: path, data: newLocalData()}
	if path == "" {
		return s, nil
	}
	if err := s.readLocalDB(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) readLocalDB() error {
	fileBytes, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.commit()
	} else if err != nil {
		return err
	}
	if len(fileBytes) == 0 {
		return nil
	}
	data := newLocalData()
	if err := json.Unmarshal(fileBytes, &data); err != nil {
		return fmt.Errorf("cannot parse local db %v: %w", s.path, err)
	}
	s.data = data
	return nil
}

// commit must be called with the write lock held.
func (s *LocalStore) commit() error {
	if s.path == "" {
		return nil
	}
	dataBytes, err := json.MarshalIndent(s.data, "", "	")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, dataBytes, 0644)
}

func (s *LocalStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit()
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %v: %w", what, id, apperrors.ErrNotFound)
}

func (s *LocalStore) InsertBooking(_ context.Context, booking model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := booking.Id.Hex()
	if _, ok := s.data.Bookings[id]; ok {
		return fmt.Errorf("%s %v: %w", BookingsCollection, id, apperrors.ErrAlreadyExists)
	}
	s.data.Bookings[id] = booking
	return s.commit()
}

func (s *LocalStore) GetBooking(_ context.Context, id string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	booking, ok := s.data.Bookings[id]
	if !ok {
		return model.Booking{}, notFound(BookingsCollection, id)
	}
	return booking, nil
}

func (s *LocalStore) ListBookings(_ context.Context, f BookingFilter) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bookings := []model.Booking{}
	for _, b := range s.data.Bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Status == "" && f.ExcludeStatus != "" && b.Status == f.ExcludeStatus {
			continue
		}
		if f.PropertyId != "" && b.PropertyId != f.PropertyId {
			continue
		}
		if !f.CheckInFrom.IsZero() && b.CheckIn.Before(f.CheckInFrom) {
			continue
		}
		if !f.CheckInTo.IsZero() && !b.CheckIn.Before(f.CheckInTo) {
			continue
		}
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}

func (s *LocalStore) UpdateBooking(_ context.Context, booking model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := booking.Id.Hex()
	if _, ok := s.data.Bookings[id]; !ok {
		return notFound(BookingsCollection, id)
	}
	s.data.Bookings[id] = booking
	return s.commit()
}

func (s *LocalStore) InsertJob(_ context.Context, job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Jobs[job.Id.Hex()] = job
	return s.commit()
}

func (s *LocalStore) GetJob(_ context.Context, id string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.data.Jobs[id]
	if !ok {
		return model.Job{}, notFound(JobsCollection, id)
	}
	return job, nil
}

func (s *LocalStore) ListJobs(_ context.Context, f JobFilter) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := []model.Job{}
	for _, j := range s.data.Jobs {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.StaffId != "" && j.AssignedStaffId != f.StaffId {
			continue
		}
		if f.BookingId != "" && j.BookingId != f.BookingId {
			continue
		}
		if !overlaps(j.Start, j.End, f.From, f.To) {
			continue
		}
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].Start.Before(jobs[k].Start) })
	return jobs, nil
}

func (s *LocalStore) UpdateJob(_ context.Context, job model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := job.Id.Hex()
	if _, ok := s.data.Jobs[id]; !ok {
		return notFound(JobsCollection, id)
	}
	s.data.Jobs[id] = job
	return s.commit()
}

func (s *LocalStore) InsertStaff(_ context.Context, staff model.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Staff[staff.Id.Hex()] = staff
	return s.commit()
}

func (s *LocalStore) GetStaff(_ context.Context, id string) (model.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	staff, ok := s.data.Staff[id]
	if !ok {
		return model.StaffMember{}, notFound(StaffCollection, id)
	}
	return staff, nil
}

func (s *LocalStore) ListStaff(_ context.Context) ([]model.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	staff := make([]model.StaffMember, 0, len(s.data.Staff))
	for _, m := range s.data.Staff {
		staff = append(staff, m)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	return staff, nil
}

func (s *LocalStore) UpdateStaff(_ context.Context, staff model.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := staff.Id.Hex()
	if _, ok := s.data.Staff[id]; !ok {
		return notFound(StaffCollection, id)
	}
	s.data.Staff[id] = staff
	return s.commit()
}

func (s *LocalStore) IncrementCompletedJobs(_ context.Context, staffId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staff, ok := s.data.Staff[staffId]
	if !ok {
		return notFound(StaffCollection, staffId)
	}
	staff.CompletedJobs++
	s.data.Staff[staffId] = staff
	return s.commit()
}

func (s *LocalStore) InsertEvent(_ context.Context, event model.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Events[event.Id.Hex()] = event
	return s.commit()
}

func (s *LocalStore) GetEvent(_ context.Context, id string) (model.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.data.Events[id]
	if !ok {
		return model.CalendarEvent{}, notFound(EventsCollection, id)
	}
	return event, nil
}

func (s *LocalStore) ListEvents(_ context.Context, f EventFilter) ([]model.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := []model.CalendarEvent{}
	for _, e := range s.data.Events {
		if f.StaffId != "" && e.StaffId != f.StaffId {
			continue
		}
		if containsString(f.ExcludeStatus, e.Status) {
			continue
		}
		if !overlaps(e.Start, e.End, f.From, f.To) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

func (s *LocalStore) UpdateEvent(_ context.Context, event model.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := event.Id.Hex()
	if _, ok := s.data.Events[id]; !ok {
		return notFound(EventsCollection, id)
	}
	s.data.Events[id] = event
	return s.commit()
}

func (s *LocalStore) InsertNotification(_ context.Context, notification model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Notifications = append(s.data.Notifications, notification)
	return s.commit()
}

func (s *LocalStore) ListNotifications(_ context.Context, recipientId string, limit int) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notifications := []model.Notification{}
	for i := len(s.data.Notifications) - 1; i >= 0; i-- {
		n := s.data.Notifications[i]
		if recipientId != "" && n.RecipientId != recipientId {
			continue
		}
		notifications = append(notifications, n)
		if limit > 0 && len(notifications) == limit {
			break
		}
	}
	return notifications, nil
}

func (s *LocalStore) InsertAuditLog(_ context.Context, entry model.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AuditLogs = append(s.data.AuditLogs, entry)
	return s.commit()
}

func (s *LocalStore) ListAuditLogs(_ context.Context, limit int) ([]model.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []model.AuditLog{}
	for i := len(s.data.AuditLogs) - 1; i >= 0; i-- {
		entries = append(entries, s.data.AuditLogs[i])
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (s *LocalStore) InsertUser(_ context.Context, user model.UserData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.Users[user.Login]; ok {
		return fmt.Errorf("%s %v: %w", UsersCollection, user.Login, apperrors.ErrAlreadyExists)
	}
	s.data.Users[user.Login] = user
	return s.commit()
}

func (s *LocalStore) GetUserData(_ context.Context, login string) (model.UserData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.data.Users[login]
	if !ok {
		return model.UserData{}, fmt.Errorf("user %v: %w", login, apperrors.ErrNotFound)
	}
	return user, nil
}
