package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"property-ops/database"
	"property-ops/model"
)

var day = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

func event(staff string, startH, endH int, status string) model.CalendarEvent {
	return model.CalendarEvent{
		Id:      primitive.NewObjectID(),
		StaffId: staff,
		Start:   at(startH),
		End:     at(endH),
		Status:  status,
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	cases := []struct {
		name       string
		aStart     int
		aEnd       int
		bStart     int
		bEnd       int
		overlapped bool
	}{
		{"identical", 9, 11, 9, 11, true},
		{"contained", 9, 17, 10, 11, true},
		{"partial left", 9, 11, 10, 12, true},
		{"partial right", 10, 12, 9, 11, true},
		{"touching end to start", 9, 10, 10, 11, false},
		{"touching start to end", 10, 11, 9, 10, false},
		{"disjoint", 9, 10, 12, 13, false},
	}
	for _, tt := range cases {
		got := Overlaps(at(tt.aStart), at(tt.aEnd), at(tt.bStart), at(tt.bEnd))
		assert.Equalf(t, tt.overlapped, got, tt.name)
		assert.Equalf(t, got, Overlaps(at(tt.bStart), at(tt.bEnd), at(tt.aStart), at(tt.aEnd)), "%s symmetric", tt.name)
	}
}

func TestOverlapsMatchesIntersection(t *testing.T) {
	for aS := 0; aS < 6; aS++ {
		for aE := aS + 1; aE <= 6; aE++ {
			for bS := 0; bS < 6; bS++ {
				for bE := bS + 1; bE <= 6; bE++ {
					lo, hi := aS, aE
					if bS > lo {
						lo = bS
					}
					if bE < hi {
						hi = bE
					}
					assert.Equal(t, lo < hi, Overlaps(at(aS), at(aE), at(bS), at(bE)))
				}
			}
		}
	}
}

func TestDetectConflicts(t *testing.T) {
	overlapping := event("ana", 9, 11, model.EventScheduled)
	edited := event("ana", 10, 12, model.EventScheduled)
	existing := []model.CalendarEvent{
		overlapping,
		edited,
		event("ana", 11, 12, model.EventCompleted),
		event("ana", 10, 11, model.EventCancelled),
		event("ana", 8, 9, model.EventScheduled),
		event("ben", 9, 12, model.EventScheduled),
	}

	conflicts := DetectConflicts(existing, ConflictRequest{StaffId: "ana", Start: at(9), End: at(12), ExcludeEventId: edited.Id.Hex()})
	require.Len(t, conflicts, 1)
	assert.Equal(t, overlapping.Id, conflicts[0].Id)

	conflicts = DetectConflicts(existing, ConflictRequest{StaffId: "ana", Start: at(9), End: at(12)})
	assert.Len(t, conflicts, 2)
}

func TestSuggestions(t *testing.T) {
	assert.Empty(t, Suggestions(nil))

	got := Suggestions([]model.CalendarEvent{event("ana", 9, 11, ""), event("ana", 10, 13, "")})
	require.Len(t, got, 2)
	assert.Contains(t, got[0], at(13).Format(time.RFC3339))
	assert.Equal(t, "Assign another staff member", got[1])
}

func TestConflictCheckerUsesStore(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewLocalStore("")
	require.NoError(t, err)
	require.NoError(t, store.InsertEvent(ctx, event("ana", 9, 11, model.EventScheduled)))
	require.NoError(t, store.InsertEvent(ctx, event("ana", 11, 12, model.EventCancelled)))

	checker := NewConflictChecker(store)

	res, err := checker.Check(ctx, ConflictRequest{StaffId: "ana", Start: at(10), End: at(12)})
	require.NoError(t, err)
	assert.True(t, res.HasConflict)
	assert.Len(t, res.Conflicts, 1)
	assert.Len(t, res.Suggestions, 2)

	res, err = checker.Check(ctx, ConflictRequest{StaffId: "ana", Start: at(11), End: at(12)})
	require.NoError(t, err)
	assert.False(t, res.HasConflict)
	assert.Empty(t, res.Suggestions)

	_, err = checker.Check(ctx, ConflictRequest{StaffId: "ana", Start: at(12), End: at(11)})
	assert.Error(t, err)
}
