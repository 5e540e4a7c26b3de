package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"property-ops/database"
	"property-ops/model"
	"property-ops/scheduling"
)

var june = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	ctx      context.Context
	store    *database.LocalStore
	auditor  *Auditor
	notifier *Notifier
	jobs     *JobService
	bookings *BookingService
	staff    *StaffService
	calendar *CalendarService
	reports  *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := database.NewLocalStore("")
	require.NoError(t, err)

	auditor := NewAuditor(store)
	notifier := NewNotifier(store)
	checker := scheduling.NewConflictChecker(store)
	jobs := NewJobService(store, checker, auditor, notifier)
	return &testEnv{
		ctx:      context.Background(),
		store:    store,
		auditor:  auditor,
		notifier: notifier,
		jobs:     jobs,
		bookings: NewBookingService(store, jobs, auditor, notifier),
		staff:    NewStaffService(store, auditor),
		calendar: NewCalendarService(store, checker, auditor),
		reports:  NewReportService(store),
	}
}

func (e *testEnv) addStaff(t *testing.T, name, role string) model.StaffMember {
	t.Helper()
	staff := model.StaffMember{
		Id:           primitive.NewObjectID(),
		Name:         name,
		Role:         role,
		WorkingHours: model.WorkingHours{Start: 8, End: 17},
		Available:    true,
	}
	require.NoError(t, e.store.InsertStaff(e.ctx, staff))
	return staff
}

func (e *testEnv) addBooking(t *testing.T, in CreateBookingInput) model.Booking {
	t.Helper()
	booking, err := e.bookings.Create(e.ctx, "tester", in)
	require.NoError(t, err)
	return booking
}

func stay(property string, checkInDay, nights int) CreateBookingInput {
	checkIn := june.AddDate(0, 0, checkInDay-1).Add(15 * time.Hour)
	return CreateBookingInput{
		GuestName:    "Ada Lovelace",
		GuestEmail:   "ada@example.com",
		PropertyId:   property,
		PropertyName: "Harbour Loft",
		CheckIn:      checkIn,
		CheckOut:     checkIn.AddDate(0, 0, nights).Add(-4 * time.Hour),
		Guests:       2,
		Amount:       decimal.NewFromInt(int64(nights) * 150),
	}
}

func (e *testEnv) addJob(t *testing.T, role string, startHour, endHour int) model.Job {
	t.Helper()
	job, err := e.jobs.Create(e.ctx, "tester", CreateJobInput{
		PropertyId:   "prop-1",
		Title:        "Deep clean",
		Type:         model.JobTypeCleaning,
		RequiredRole: role,
		Start:        june.Add(time.Duration(startHour) * time.Hour),
		End:          june.Add(time.Duration(endHour) * time.Hour),
	})
	require.NoError(t, err)
	return job
}
