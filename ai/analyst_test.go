package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-ops/model"
)

type staticAudit []model.AuditLog

func (s staticAudit) Recent(_ context.Context, _ int) ([]model.AuditLog, error) {
	return s, nil
}

var trail = staticAudit{
	{Actor: "ana", Action: "booking.created"},
	{Actor: "ana", Action: "booking.created"},
	{Actor: "bob", Action: "job.assigned"},
	{Actor: "ana", Action: "booking.approved"},
}

func TestCountActions(t *testing.T) {
	analysis := CountActions(trail)
	assert.Equal(t, 4, analysis.Entries)
	assert.Equal(t, 2, analysis.Actors)
	assert.Equal(t, []ActionCount{
		{Action: "booking.created", Count: 2},
		{Action: "booking.approved", Count: 1},
		{Action: "job.assigned", Count: 1},
	}, analysis.Actions)
}

func TestAnalyzeHeuristic(t *testing.T) {
	analysis, err := NewAuditAnalyst(trail, nil).Analyze(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, analysis.Source)
	assert.Equal(t, "4 entries by 2 actor(s): booking.created x2, booking.approved x1, job.assigned x1", analysis.Summary)

	empty, err := NewAuditAnalyst(staticAudit{}, &fakeLLM{text: "unused"}).Analyze(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, "No audit activity recorded.", empty.Summary)
}

func TestAnalyzeWithLLM(t *testing.T) {
	llm := &fakeLLM{text: "- Two new bookings"}
	analysis, err := NewAuditAnalyst(trail, llm).Analyze(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, analysis.Source)
	assert.Equal(t, "- Two new bookings", analysis.Summary)

	failing := &fakeLLM{err: errors.New("timeout")}
	analysis, err = NewAuditAnalyst(trail, failing).Analyze(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, analysis.Source)
}
