package model

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingPending  = "pending"
	BookingApproved = "approved"
	BookingRejected = "rejected"
)

type Booking struct {
	Id              primitive.ObjectID `json:"id" bson:"_id"`
	GuestName       string             `json:"guest_name" bson:"guest_name"`
	GuestEmail      string             `json:"guest_email,omitempty" bson:"guest_email,omitempty"`
	PropertyId      string             `json:"property_id" bson:"property_id"`
	PropertyName    string             `json:"property_name,omitempty" bson:"property_name,omitempty"`
	PropertyLoc     *GeoPoint          `json:"property_location,omitempty" bson:"property_location,omitempty"`
	CheckIn         time.Time          `json:"check_in" bson:"check_in"`
	CheckOut        time.Time          `json:"check_out" bson:"check_out"`
	Guests          int                `json:"guests" bson:"guests"`
	Amount          decimal.Decimal    `json:"amount" bson:"amount"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Status          string             `json:"status" bson:"status"`
	RejectionReason string             `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	Decision        *Decision          `json:"decision,omitempty" bson:"decision,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// Nights counts whole calendar nights between check-in and check-out.
func (b Booking) Nights() int {
	if !b.CheckOut.After(b.CheckIn) {
		return 0
	}
	in := time.Date(b.CheckIn.Year(), b.CheckIn.Month(), b.CheckIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(b.CheckOut.Year(), b.CheckOut.Month(), b.CheckOut.Day(), 0, 0, 0, 0, time.UTC)
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// Decision is the outcome recorded by the AI COO for a booking.
type Decision struct {
	Outcome    string    `json:"outcome" bson:"outcome"`
	Confidence float64   `json:"confidence" bson:"confidence"`
	Reasons    []string  `json:"reasons" bson:"reasons"`
	Rationale  string    `json:"rationale" bson:"rationale"`
	Source     string    `json:"source" bson:"source"`
	DecidedAt  time.Time `json:"decided_at" bson:"decided_at"`
}
