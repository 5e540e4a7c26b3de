package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/model"
)

type ReportService struct {
	store database.Store
}

func NewReportService(store database.Store) *ReportService {
	return &ReportService{store: store}
}

// Summary covers bookings checking in within [from, to) and jobs whose window
// intersects it.
func (s *ReportService) Summary(ctx context.Context, from, to time.Time) (model.Report, error) {
	if !to.After(from) {
		return model.Report{}, fmt.Errorf("report end is not after start: %w", apperrors.ErrInvalidDates)
	}
	bookings, err := s.store.ListBookings(ctx, database.BookingFilter{CheckInFrom: from, CheckInTo: to})
	if err != nil {
		return model.Report{}, fmt.Errorf("cannot load bookings: %w", err)
	}
	jobs, err := s.store.ListJobs(ctx, database.JobFilter{From: from, To: to})
	if err != nil {
		return model.Report{}, fmt.Errorf("cannot load jobs: %w", err)
	}
	return BuildReport(from, to, bookings, jobs), nil
}

func BuildReport(from, to time.Time, bookings []model.Booking, jobs []model.Job) model.Report {
	report := model.Report{
		From:             from,
		To:               to,
		BookingsByStatus: map[string]int{},
		JobsByStatus:     map[string]int{},
	}

	revenue := decimal.Zero
	nights := 0
	for _, b := range bookings {
		report.BookingsByStatus[b.Status]++
		if b.Status == model.BookingApproved {
			revenue = revenue.Add(b.Amount)
			nights += b.Nights()
		}
	}
	report.Revenue = revenue.StringFixed(2)
	if nights > 0 {
		report.AverageNightly = revenue.Div(decimal.NewFromInt(int64(nights))).StringFixed(2)
	} else {
		report.AverageNightly = decimal.Zero.StringFixed(2)
	}

	active, completed := 0, 0
	for _, j := range jobs {
		report.JobsByStatus[j.Status]++
		if j.Status == model.JobCancelled {
			continue
		}
		active++
		if j.Status == model.JobCompleted {
			completed++
		}
	}
	if active > 0 {
		report.CompletionRate = math.Round(float64(completed)/float64(active)*10000) / 10000
	}
	return report
}
