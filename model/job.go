package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	JobPending    = "pending"
	JobAssigned   = "assigned"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

const (
	JobTypeCleaning    = "cleaning"
	JobTypeMaintenance = "maintenance"
	JobTypeInspection  = "inspection"
	JobTypeLaundry     = "laundry"
	JobTypeGeneral     = "general"
)

type Job struct {
	Id              primitive.ObjectID `json:"job_id" bson:"_id"`
	BookingId       string             `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	PropertyId      string             `json:"property_id" bson:"property_id"`
	Title           string             `json:"title" bson:"title"`
	Type            string             `json:"type" bson:"type"`
	Status          string             `json:"status" bson:"status"`
	AssignedStaffId string             `json:"assigned_staff_id,omitempty" bson:"assigned_staff_id,omitempty"`
	RequiredRole    string             `json:"required_role,omitempty" bson:"required_role,omitempty"`
	Start           time.Time          `json:"start" bson:"start"`
	End             time.Time          `json:"end" bson:"end"`
	Location        *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	CalendarEventId string             `json:"calendar_event_id,omitempty" bson:"calendar_event_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}
