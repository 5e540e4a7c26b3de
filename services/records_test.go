package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-ops/model"
)

type brokenRecords struct{}

var errDown = errors.New("store down")

func (brokenRecords) InsertAuditLog(context.Context, model.AuditLog) error { return errDown }
func (brokenRecords) ListAuditLogs(context.Context, int) ([]model.AuditLog, error) {
	return nil, errDown
}
func (brokenRecords) InsertNotification(context.Context, model.Notification) error { return errDown }
func (brokenRecords) ListNotifications(context.Context, string, int) ([]model.Notification, error) {
	return nil, errDown
}

func TestSideEffectsAreBestEffort(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		NewAuditor(brokenRecords{}).Record(ctx, "admin", "booking.created", "booking", "b1", nil)
		NewNotifier(brokenRecords{}).Notify(ctx, "staff-1", "hello", "world")
	})
}

func TestNotifierSkipsEmptyRecipient(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.Send(env.ctx, "", "", "title", "body")
	env.notifier.Send(env.ctx, "", "staff-1", "title", "body")

	inbox, err := env.notifier.List(env.ctx, "staff-1", 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, model.ChannelInApp, inbox[0].Channel)
	assert.Equal(t, model.NotificationSent, inbox[0].Status)
}

func TestAuditRecentLimit(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 5; i++ {
		env.auditor.Record(env.ctx, "admin", "noop", "test", "x", nil)
	}
	logs, err := env.auditor.Recent(env.ctx, 3)
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	logs, err = env.auditor.Recent(env.ctx, -1)
	require.NoError(t, err)
	assert.Len(t, logs, 5)
}
