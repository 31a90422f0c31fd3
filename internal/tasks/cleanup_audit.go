package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library-catalog/internal/logging"
)

// DefaultAuditRetentionDays applies when a task carries no retention.
const DefaultAuditRetentionDays = 30

var errNoCleaner = errors.New("audit event cleaner not configured")

// AuditEventCleaner provides the ability to delete old audit events.
type AuditEventCleaner interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupAuditEventsTask removes audit events older than the configured retention period.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Retention is the age past which events are removed.
func (t CleanupAuditEventsTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CleanupAuditEventsProcessor creates a processor function for CleanupAuditEventsTask.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner, logger hclog.Logger) backlite.QueueProcessor[CleanupAuditEventsTask] {
	logger = logging.OrDiscard(logger)
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return errNoCleaner
		}

		deleted, err := cleaner.DeleteOldEvents(ctx, task.Retention())
		if err != nil {
			return fmt.Errorf("cleanup audit events: %w", err)
		}

		logger.Info("cleaned up audit events", "deleted", deleted, "retention", task.Retention())
		return nil
	}
}

// NewCleanupAuditEventsQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner, logger hclog.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner, logger))
}

// EnqueueAuditCleanup schedules one cleanup run and returns its task ID.
func (c *Client) EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error) {
	ids, err := c.Add(CleanupAuditEventsTask{RetentionDays: retentionDays}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue audit cleanup: %w", err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

// InlineCleanup runs the cleanup in the caller's goroutine. It stands in
// for the queue when the queue is disabled.
type InlineCleanup struct {
	process backlite.QueueProcessor[CleanupAuditEventsTask]
}

func NewInlineCleanup(cleaner AuditEventCleaner, logger hclog.Logger) *InlineCleanup {
	return &InlineCleanup{process: CleanupAuditEventsProcessor(cleaner, logger)}
}

// EnqueueAuditCleanup runs the cleanup immediately. The returned ID is empty.
func (i *InlineCleanup) EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error) {
	return "", i.process(ctx, CleanupAuditEventsTask{RetentionDays: retentionDays})
}
