package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/model"
)

// TurnoverDuration is the length of the cleaning job created when a booking is approved.
const TurnoverDuration = 3 * time.Hour

type CreateBookingInput struct {
	GuestName        string          `json:"guest_name" validate:"required,min=2"`
	GuestEmail       string          `json:"guest_email" validate:"omitempty,email"`
	PropertyId       string          `json:"property_id" validate:"required"`
	PropertyName     string          `json:"property_name"`
	PropertyLocation *model.GeoPoint `json:"property_location"`
	CheckIn          time.Time       `json:"check_in" validate:"required"`
	CheckOut         time.Time       `json:"check_out" validate:"required"`
	Guests           int             `json:"guests" validate:"gte=1"`
	Amount           decimal.Decimal `json:"amount"`
	Notes            string          `json:"notes"`
}

func (in *CreateBookingInput) Normalize() {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	in.PropertyId = strings.TrimSpace(in.PropertyId)
	in.PropertyName = strings.TrimSpace(in.PropertyName)
}

func (in CreateBookingInput) Validate() error {
	if err := ValidateStruct(in); err != nil {
		return err
	}
	if !in.CheckOut.After(in.CheckIn) {
		return fmt.Errorf("check-out %s is not after check-in %s: %w",
			in.CheckOut.Format(time.RFC3339), in.CheckIn.Format(time.RFC3339), apperrors.ErrInvalidDates)
	}
	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: Amount: gte=0", apperrors.ErrValidation)
	}
	return nil
}

type JobCreator interface {
	CreateForBooking(ctx context.Context, actor string, booking model.Booking) (model.Job, error)
}

type BookingService struct {
	store    database.Store
	jobs     JobCreator
	auditor  *Auditor
	notifier *Notifier
	now      func() time.Time
}

func NewBookingService(store database.Store, jobs JobCreator, auditor *Auditor, notifier *Notifier) *BookingService {
	return &BookingService{store: store, jobs: jobs, auditor: auditor, notifier: notifier, now: time.Now}
}

func (s *BookingService) Create(ctx context.Context, actor string, in CreateBookingInput) (model.Booking, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Booking{}, err
	}

	now := s.now().UTC()
	booking := model.Booking{
		Id:           primitive.NewObjectID(),
		GuestName:    in.GuestName,
		GuestEmail:   in.GuestEmail,
		PropertyId:   in.PropertyId,
		PropertyName: in.PropertyName,
		PropertyLoc:  in.PropertyLocation,
		CheckIn:      in.CheckIn.UTC(),
		CheckOut:     in.CheckOut.UTC(),
		Guests:       in.Guests,
		Amount:       in.Amount,
		Notes:        in.Notes,
		Status:       model.BookingPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertBooking(ctx, booking); err != nil {
		return model.Booking{}, fmt.Errorf("cannot save booking: %w", err)
	}

	s.auditor.Record(ctx, actor, "booking.created", "booking", booking.Id.Hex(), map[string]interface{}{
		"property_id": booking.PropertyId,
		"nights":      booking.Nights(),
	})
	s.notifier.Notify(ctx, AdminRecipient, "New booking request",
		fmt.Sprintf("%s requested %s for %d night(s)", booking.GuestName, propertyLabel(booking), booking.Nights()))
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (model.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// List returns bookings by status. activeOnly drops rejected bookings when no
// explicit status is requested.
func (s *BookingService) List(ctx context.Context, status string, activeOnly bool) ([]model.Booking, error) {
	filter := database.BookingFilter{Status: status}
	if activeOnly {
		filter.ExcludeStatus = model.BookingRejected
	}
	return s.store.ListBookings(ctx, filter)
}

// Approve moves a pending booking to approved and creates its turnover job.
func (s *BookingService) Approve(ctx context.Context, actor, id string) (model.Booking, *model.Job, error) {
	booking, err := s.pending(ctx, id)
	if err != nil {
		return model.Booking{}, nil, err
	}
	booking.Status = model.BookingApproved
	booking.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return model.Booking{}, nil, fmt.Errorf("cannot approve booking: %w", err)
	}
	s.auditor.Record(ctx, actor, "booking.approved", "booking", booking.Id.Hex(), nil)

	var created *model.Job
	if s.jobs != nil {
		job, err := s.jobs.CreateForBooking(ctx, actor, booking)
		if err != nil {
			return booking, nil, fmt.Errorf("booking approved but turnover job failed: %w", err)
		}
		created = &job
	}
	if booking.GuestEmail != "" {
		s.notifier.Send(ctx, model.ChannelEmail, booking.GuestEmail, "Booking confirmed",
			fmt.Sprintf("Your stay at %s is confirmed.", propertyLabel(booking)))
	}
	return booking, created, nil
}

func (s *BookingService) Reject(ctx context.Context, actor, id, reason string) (model.Booking, error) {
	booking, err := s.pending(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	booking.Status = model.BookingRejected
	booking.RejectionReason = strings.TrimSpace(reason)
	booking.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return model.Booking{}, fmt.Errorf("cannot reject booking: %w", err)
	}
	s.auditor.Record(ctx, actor, "booking.rejected", "booking", booking.Id.Hex(), map[string]interface{}{
		"reason": booking.RejectionReason,
	})
	if booking.GuestEmail != "" {
		s.notifier.Send(ctx, model.ChannelEmail, booking.GuestEmail, "Booking declined",
			fmt.Sprintf("We could not confirm your stay at %s.", propertyLabel(booking)))
	}
	return booking, nil
}

// RecordDecision stores an AI COO decision on the booking without changing its status.
func (s *BookingService) RecordDecision(ctx context.Context, id string, decision model.Decision) (model.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	booking.Decision = &decision
	booking.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return model.Booking{}, fmt.Errorf("cannot store decision: %w", err)
	}
	return booking, nil
}

// ApprovedOverlapping returns approved bookings for the same property whose stay
// overlaps the given booking.
func (s *BookingService) ApprovedOverlapping(ctx context.Context, booking model.Booking) ([]model.Booking, error) {
	approved, err := s.store.ListBookings(ctx, database.BookingFilter{
		Status:     model.BookingApproved,
		PropertyId: booking.PropertyId,
	})
	if err != nil {
		return nil, err
	}
	overlapping := []model.Booking{}
	for _, b := range approved {
		if b.Id == booking.Id {
			continue
		}
		if b.CheckIn.Before(booking.CheckOut) && b.CheckOut.After(booking.CheckIn) {
			overlapping = append(overlapping, b)
		}
	}
	return overlapping, nil
}

func (s *BookingService) pending(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if booking.Status != model.BookingPending {
		return model.Booking{}, fmt.Errorf("booking %v is already %s: %w", id, booking.Status, apperrors.ErrInvalidState)
	}
	return booking, nil
}

func propertyLabel(b model.Booking) string {
	if b.PropertyName != "" {
		return b.PropertyName
	}
	return b.PropertyId
}
