// Package audit records who signed in and who changed the catalog.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/logging"
)

// writeTimeout bounds a single background write.
const writeTimeout = 5 * time.Second

// Store is the persistence the service writes through.
type Store interface {
	LogEvent(ctx context.Context, event *entities.AuditEvent) error
	GetEvents(ctx context.Context, userID uint, limit, offset int) ([]entities.AuditEvent, int64, error)
	DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// Service provides high-level audit logging functionality.
type Service struct {
	store   Store
	logger  hclog.Logger
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(store Store, logger hclog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.OrDiscard(logger).Named("audit"),
	}
}

// Log records an audit event synchronously.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.store.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background. Failures are logged
// and never reach the request that triggered them.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.store.LogEvent(ctx, event); err != nil {
			s.logger.Error("failed to log audit event", "action", event.Action, "error", err)
		}
	}()
}

// Wait blocks until every LogAsync write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		UserID:     userID,
		EventType:  entities.AuditEventAuth,
		Action:     action,
		EntityType: "user",
		IPAddress:  ipAddr,
		UserAgent:  truncate(userAgent, 500),
		Status:     entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogMutation records a create, update or delete of a catalog entity.
func (s *Service) LogMutation(userID uint, eventType entities.AuditEventType, entityType string, entityID uint, entityName string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: truncate(fmt.Sprintf("%s %s: %s", pastTense(eventType), entityType, entityName), 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, userID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.store.GetEvents(ctx, userID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.store.DeleteOldEvents(ctx, cutoff)
}

func pastTense(t entities.AuditEventType) string {
	switch t {
	case entities.AuditEventCreate:
		return "Created"
	case entities.AuditEventUpdate:
		return "Updated"
	case entities.AuditEventDelete:
		return "Deleted"
	default:
		return string(t)
	}
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
