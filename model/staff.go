package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StaffMember struct {
	Id            primitive.ObjectID `json:"id" bson:"_id"`
	UserId        string             `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role          string             `json:"role" bson:"role"`
	Skills        []string           `json:"skills" bson:"skills"`
	WorkingHours  WorkingHours       `json:"working_hours" bson:"working_hours"`
	Location      *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	Rating        float64            `json:"rating" bson:"rating"`
	CompletedJobs int                `json:"completed_jobs" bson:"completed_jobs"`
	Available     bool               `json:"available" bson:"available"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// WorkingHours is a daily [Start, End) window in whole hours, 0..24.
type WorkingHours struct {
	Start int `json:"start" bson:"start"`
	End   int `json:"end" bson:"end"`
}

func (w WorkingHours) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}
