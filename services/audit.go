package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"property-ops/logging"
	"property-ops/model"
)

type AuditStore interface {
	InsertAuditLog(ctx context.Context, entry model.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type Auditor struct {
	store AuditStore
	now   func() time.Time
}

func NewAuditor(store AuditStore) *Auditor {
	return &Auditor{store: store, now: time.Now}
}

// Record writes an audit entry. Failures are logged and never returned.
func (a *Auditor) Record(ctx context.Context, actor, action, entity, entityId string, details map[string]interface{}) {
	entry := model.AuditLog{
		Id:        primitive.NewObjectID(),
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		EntityId:  entityId,
		Details:   details,
		CreatedAt: a.now().UTC(),
	}
	if err := a.store.InsertAuditLog(ctx, entry); err != nil {
		logging.FromContext(ctx).WithFields(logrus.Fields{
			"action":    action,
			"entity":    entity,
			"entity_id": entityId,
		}).WithError(err).Warn("audit log write failed")
	}
}

func (a *Auditor) Recent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return a.store.ListAuditLogs(ctx, limit)
}
