package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"property-ops/logging"
	"property-ops/metrics"
	"property-ops/model"
)

// AdminRecipient addresses notifications to every admin and manager.
const AdminRecipient = "admins"

type NotificationStore interface {
	InsertNotification(ctx context.Context, notification model.Notification) error
	ListNotifications(ctx context.Context, recipientId string, limit int) ([]model.Notification, error)
}

type Notifier struct {
	store NotificationStore
	now   func() time.Time
}

func NewNotifier(store NotificationStore) *Notifier {
	return &Notifier{store: store, now: time.Now}
}

// Notify records an in-app notification. Delivery failures are logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, recipientId, title, body string) {
	n.Send(ctx, model.ChannelInApp, recipientId, title, body)
}

func (n *Notifier) Send(ctx context.Context, channel, recipientId, title, body string) {
	if recipientId == "" {
		return
	}
	if channel == "" {
		channel = model.ChannelInApp
	}
	notification := model.Notification{
		Id:          primitive.NewObjectID(),
		RecipientId: recipientId,
		Channel:     channel,
		Title:       title,
		Body:        body,
		Status:      model.NotificationSent,
		CreatedAt:   n.now().UTC(),
	}
	if err := n.store.InsertNotification(ctx, notification); err != nil {
		metrics.RecordNotification(channel, false)
		logging.FromContext(ctx).WithFields(logrus.Fields{
			"recipient": recipientId,
			"channel":   channel,
		}).WithError(err).Warn("notification dispatch failed")
		return
	}
	metrics.RecordNotification(channel, true)
}

func (n *Notifier) List(ctx context.Context, recipientId string, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return n.store.ListNotifications(ctx, recipientId, limit)
}
