package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventScheduled  = "scheduled"
	EventInProgress = "in_progress"
	EventCompleted  = "completed"
	EventCancelled  = "cancelled"
)

type CalendarEvent struct {
	Id         primitive.ObjectID `json:"id" bson:"_id"`
	Title      string             `json:"title" bson:"title"`
	StaffId    string             `json:"staff_id" bson:"staff_id"`
	PropertyId string             `json:"property_id,omitempty" bson:"property_id,omitempty"`
	JobId      string             `json:"job_id,omitempty" bson:"job_id,omitempty"`
	Start      time.Time          `json:"start" bson:"start"`
	End        time.Time          `json:"end" bson:"end"`
	Status     string             `json:"status" bson:"status"`
}

// Terminal events no longer occupy the staff member's time.
func (e CalendarEvent) Terminal() bool {
	return e.Status == EventCompleted || e.Status == EventCancelled
}
