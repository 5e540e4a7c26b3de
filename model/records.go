package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

type Notification struct {
	Id          primitive.ObjectID `json:"id" bson:"_id"`
	RecipientId string             `json:"recipient_id" bson:"recipient_id"`
	Channel     string             `json:"channel" bson:"channel"`
	Title       string             `json:"title" bson:"title"`
	Body        string             `json:"body" bson:"body"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type AuditLog struct {
	Id        primitive.ObjectID     `json:"id" bson:"_id"`
	Actor     string                 `json:"actor" bson:"actor"`
	Action    string                 `json:"action" bson:"action"`
	Entity    string                 `json:"entity" bson:"entity"`
	EntityId  string                 `json:"entity_id" bson:"entity_id"`
	Details   map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
}

// Report is computed on request and never stored.
type Report struct {
	From             time.Time      `json:"from"`
	To               time.Time      `json:"to"`
	BookingsByStatus map[string]int `json:"bookings_by_status"`
	Revenue          string         `json:"revenue"`
	AverageNightly   string         `json:"average_nightly"`
	JobsByStatus     map[string]int `json:"jobs_by_status"`
	CompletionRate   float64        `json:"completion_rate"`
}
