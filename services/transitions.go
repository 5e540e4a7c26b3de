package services

import (
	"fmt"
	"strings"

	apperrors "property-ops/errors"
	"property-ops/model"
)

var transitionMap = map[string][]string{
	model.JobPending:    {model.JobAssigned, model.JobCancelled},
	model.JobAssigned:   {model.JobInProgress, model.JobPending, model.JobCancelled},
	model.JobInProgress: {model.JobCompleted, model.JobCancelled},
	model.JobCompleted:  {},
	model.JobCancelled:  {},
}

func ValidTransition(from, to string) bool {
	allowed, ok := transitionMap[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	return status == model.JobCompleted || status == model.JobCancelled
}

func RolesMatch(required, actual string) bool {
	required = strings.TrimSpace(required)
	if required == "" {
		return true
	}
	return strings.EqualFold(required, strings.TrimSpace(actual))
}

// CheckTransition guards a job status change. assignee is the staff member the
// update assigns, nil when the update does not assign anyone.
func CheckTransition(job model.Job, to string, assignee *model.StaffMember) error {
	if !ValidTransition(job.Status, to) {
		return fmt.Errorf("cannot move job %v from %q to %q: %w", job.Id.Hex(), job.Status, to, apperrors.ErrInvalidTransition)
	}
	if assignee != nil && !RolesMatch(job.RequiredRole, assignee.Role) {
		return fmt.Errorf("job %v requires role %q but %v is %q: %w",
			job.Id.Hex(), job.RequiredRole, assignee.Name, assignee.Role, apperrors.ErrRoleMismatch)
	}
	return nil
}
