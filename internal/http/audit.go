package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/logging"
)

const (
	defaultEventsLimit = 25
	maxEventsLimit     = 100
)

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, userID uint, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	reader AuditReader
	logger hclog.Logger
}

func NewAuditController(reader AuditReader, logger hclog.Logger) *AuditController {
	return &AuditController{
		reader: reader,
		logger: logging.OrDiscard(logger),
	}
}

// MyEvents returns the caller's audit events, newest first. The route sits
// behind RequireAuth, so the user id is always set.
// GET /me/events?page=1&limit=25
func (ac *AuditController) MyEvents(c *gin.Context) {
	page, limit := parsePage(c, defaultEventsLimit, maxEventsLimit)
	offset := (page - 1) * limit

	events, total, err := ac.reader.GetEvents(c.Request.Context(), GetUserID(c), limit, offset)
	if err != nil {
		respondInternalError(c, ac.logger, err, "list audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	respondOK(c, PaginatedResponse{
		Items:      events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}
