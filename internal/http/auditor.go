package http

import "github.com/mrlokans/library-catalog/internal/entities"

// Auditor records catalog mutations.
type Auditor interface {
	LogMutation(userID uint, eventType entities.AuditEventType, entityType string, entityID uint, entityName string)
}

type noopAuditor struct{}

func (noopAuditor) LogMutation(uint, entities.AuditEventType, string, uint, string) {}

func auditorOrNoop(a Auditor) Auditor {
	if a == nil {
		return noopAuditor{}
	}
	return a
}
