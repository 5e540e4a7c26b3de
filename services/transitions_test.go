package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "property-ops/errors"
	"property-ops/model"
)

var allStatuses = []string{model.JobPending, model.JobAssigned, model.JobInProgress, model.JobCompleted, model.JobCancelled}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from  string
		to    string
		valid bool
	}{
		{"pending", "assigned", true},
		{"pending", "cancelled", true},
		{"pending", "in_progress", false},
		{"pending", "completed", false},
		{"assigned", "in_progress", true},
		{"assigned", "pending", true},
		{"assigned", "cancelled", true},
		{"assigned", "completed", false},
		{"in_progress", "completed", true},
		{"in_progress", "cancelled", true},
		{"in_progress", "assigned", false},
		{"completed", "pending", false},
		{"completed", "cancelled", false},
		{"cancelled", "pending", false},
		{"assigned", "assigned", false},
		{"unknown", "assigned", false},
		{"pending", "archived", false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestCancelledReachableFromEveryNonTerminalState(t *testing.T) {
	for _, from := range allStatuses {
		assert.Equal(t, !IsTerminal(from), ValidTransition(from, model.JobCancelled), from)
	}
}

func TestCheckTransitionRejectsEveryPairOutsideTable(t *testing.T) {
	cleaner := &model.StaffMember{Name: "Ana", Role: "cleaner"}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			job := model.Job{Status: from, RequiredRole: "cleaner"}
			err := CheckTransition(job, to, cleaner)
			if ValidTransition(from, to) {
				assert.NoErrorf(t, err, "%s -> %s", from, to)
			} else {
				assert.Truef(t, errors.Is(err, apperrors.ErrInvalidTransition), "%s -> %s", from, to)
			}
		}
	}
}

func TestCheckTransitionRoleMatch(t *testing.T) {
	job := model.Job{Status: model.JobPending, RequiredRole: " Cleaner "}

	assert.NoError(t, CheckTransition(job, model.JobAssigned, &model.StaffMember{Role: "cleaner"}))
	assert.NoError(t, CheckTransition(job, model.JobAssigned, nil))

	err := CheckTransition(job, model.JobAssigned, &model.StaffMember{Name: "Bo", Role: "maintenance"})
	assert.True(t, errors.Is(err, apperrors.ErrRoleMismatch))
	assert.Contains(t, err.Error(), "maintenance")

	job.RequiredRole = ""
	assert.NoError(t, CheckTransition(job, model.JobAssigned, &model.StaffMember{Role: "anything"}))
}
