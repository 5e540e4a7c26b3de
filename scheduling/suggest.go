package scheduling

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"property-ops/database"
	apperrors "property-ops/errors"
	"property-ops/model"
)

const (
	MaxSuggestions = 5

	AvailabilityAvailable   = "available"
	AvailabilityBusy        = "busy"
	AvailabilityOffHours    = "off_hours"
	AvailabilityUnavailable = "unavailable"
)

var skillKeywords = map[string][]string{
	model.JobTypeCleaning:    {"clean", "housekeep", "laundry", "turnover"},
	model.JobTypeMaintenance: {"maint", "repair", "plumb", "electr", "hvac", "handy"},
	model.JobTypeInspection:  {"inspect", "quality", "audit"},
	model.JobTypeLaundry:     {"laundry", "linen"},
	model.JobTypeGeneral:     {"general"},
}

type SuggestionRequest struct {
	Start    time.Time       `json:"start" validate:"required"`
	End      time.Time       `json:"end" validate:"required"`
	JobType  string          `json:"job_type" validate:"required"`
	Location *model.GeoPoint `json:"location,omitempty"`
}

type Suggestion struct {
	StaffId      string   `json:"staff_id"`
	Name         string   `json:"name"`
	Score        float64  `json:"score"`
	Confidence   float64  `json:"confidence"`
	Availability string   `json:"availability"`
	Reasons      []string `json:"reasons"`
}

// Score rates one staff member for the job out of 100. workload is the number of
// the staff member's events that intersect the job window.
func Score(staff model.StaffMember, workload int, req SuggestionRequest) Suggestion {
	s := Suggestion{StaffId: staff.Id.Hex(), Name: staff.Name}
	if !staff.Available {
		s.Availability = AvailabilityUnavailable
		s.Reasons = []string{"Staff member is marked unavailable"}
		return s
	}

	var score float64
	reasons := make([]string, 0, 5)
	hours := fmt.Sprintf("%02d:00-%02d:00", staff.WorkingHours.Start, staff.WorkingHours.End)
	inHours := staff.WorkingHours.Contains(req.Start.Hour())
	if inHours {
		score += 40
		reasons = append(reasons, "Available during working hours ("+hours+")")
	} else {
		score += 10
		reasons = append(reasons, "Outside working hours ("+hours+")")
	}

	switch {
	case workload == 0:
		score += 30
		reasons = append(reasons, "No overlapping jobs")
	case workload <= 2:
		score += 20
		reasons = append(reasons, fmt.Sprintf("Light workload (%d overlapping jobs)", workload))
	case workload <= 4:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Moderate workload (%d overlapping jobs)", workload))
	default:
		reasons = append(reasons, fmt.Sprintf("Heavy workload (%d overlapping jobs)", workload))
	}

	rating := math.Max(0, math.Min(5, staff.Rating))
	score += rating / 5 * 20
	reasons = append(reasons, fmt.Sprintf("Performance rating %.1f/5", rating))

	if matchesSkill(staff.Skills, req.JobType) {
		score += 10
		reasons = append(reasons, fmt.Sprintf("Skills match %s work", req.JobType))
	} else {
		score += 5
		reasons = append(reasons, fmt.Sprintf("No specific %s skills listed", req.JobType))
	}

	if req.Location != nil && staff.Location != nil {
		km := HaversineKm(*staff.Location, *req.Location)
		switch {
		case km < 5:
			score += 5
			reasons = append(reasons, fmt.Sprintf("Very close to property (%.1f km)", km))
		case km < 15:
			score += 3
			reasons = append(reasons, fmt.Sprintf("Near property (%.1f km)", km))
		}
	}

	s.Score = math.Round(score*100) / 100
	s.Confidence = math.Max(0, math.Min(1, s.Score/100))
	s.Reasons = reasons
	switch {
	case workload > 0:
		s.Availability = AvailabilityBusy
	case inHours:
		s.Availability = AvailabilityAvailable
	default:
		s.Availability = AvailabilityOffHours
	}
	return s
}

func matchesSkill(skills []string, jobType string) bool {
	keywords := skillKeywords[strings.ToLower(jobType)]
	for _, skill := range skills {
		skill = strings.ToLower(skill)
		for _, kw := range keywords {
			if strings.Contains(skill, kw) {
				return true
			}
		}
	}
	return false
}

// Rank scores every staff member and returns the best MaxSuggestions.
func Rank(staff []model.StaffMember, events []model.CalendarEvent, req SuggestionRequest) []Suggestion {
	workload := map[string]int{}
	for _, e := range events {
		if e.Status == model.EventCancelled || !Overlaps(e.Start, e.End, req.Start, req.End) {
			continue
		}
		workload[e.StaffId]++
	}

	suggestions := make([]Suggestion, 0, len(staff))
	for _, m := range staff {
		suggestions = append(suggestions, Score(m, workload[m.Id.Hex()], req))
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Name < suggestions[j].Name
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

type StaffReader interface {
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	ListEvents(ctx context.Context, filter database.EventFilter) ([]model.CalendarEvent, error)
}

type Suggester struct {
	store StaffReader
}

func NewSuggester(store StaffReader) *Suggester {
	return &Suggester{store: store}
}

func (s *Suggester) Suggest(ctx context.Context, req SuggestionRequest) ([]Suggestion, error) {
	if !req.End.After(req.Start) {
		return nil, fmt.Errorf("%w: end must be after start", apperrors.ErrValidation)
	}
	staff, err := s.store.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load staff: %w", err)
	}
	events, err := s.store.ListEvents(ctx, database.EventFilter{From: req.Start, To: req.End})
	if err != nil {
		return nil, fmt.Errorf("cannot load calendar events: %w", err)
	}
	return Rank(staff, events, req), nil
}
