package controllers

import (
	"context"

	"ramesh-admin/api"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ActivityLogger is the audit-trail collaborator. Failures are logged and
// swallowed; an audit miss never fails the triggering operation.
type ActivityLogger interface {
	LogActivity(ctx context.Context, action, resourceType string, resourceID uuid.UUID, note string)
}

// APIActivityLog writes audit entries through the admin API.
type APIActivityLog struct {
	client *api.Client
	log    *logrus.Entry
}

func NewAPIActivityLog(client *api.Client) *APIActivityLog {
	return &APIActivityLog{client: client, log: logrus.WithField("component", "activity")}
}

func (a *APIActivityLog) LogActivity(ctx context.Context, action, resourceType string, resourceID uuid.UUID, note string) {
	_, err := a.client.Post(ctx, "/api/admin/activity-logs", map[string]string{
		"action":        action,
		"resource_type": resourceType,
		"resource_id":   resourceID.String(),
		"note":          note,
	})
	if err != nil {
		a.log.WithError(err).Warn("failed to record activity")
	}
}
