package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/api"
	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/database"
)

// MessageInvalidID is sent when a path id is not a positive integer.
const MessageInvalidID = "invalid id"

// GetUserID extracts the caller's user ID from the Gin context.
// Returns auth.AnonymousUserID when no session was presented.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// PaginatedResponse wraps one page of data with its position.
type PaginatedResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"hasMore"`
	TotalPages int   `json:"totalPages"`
}

// --- Response Helpers ---

// respondOK sends 200 with data in the envelope.
func respondOK(c *gin.Context, data any) {
	api.OK(c, data)
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	api.Fail(c, http.StatusBadRequest, message)
}

// respondNotFound sends 404 for reads of a missing entity.
func respondNotFound(c *gin.Context) {
	api.Fail(c, http.StatusNotFound, api.MessageNotFound)
}

// respondResourceNotFound sends 404 for writes against a missing entity.
func respondResourceNotFound(c *gin.Context) {
	api.Fail(c, http.StatusNotFound, api.MessageResourceNotFound)
}

// respondConflict sends 409.
func respondConflict(c *gin.Context) {
	api.Fail(c, http.StatusConflict, api.MessageConflict)
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, logger hclog.Logger, err error, op string) {
	logger.Error("internal error", "op", op, "error", err, "request_id", RequestID(c))
	api.Fail(c, http.StatusInternalServerError, api.MessageInternalError)
}

// respondStoreError maps a repository error onto a response. notFound
// sends the 404 that fits the operation.
func respondStoreError(c *gin.Context, logger hclog.Logger, err error, op string, notFound func(*gin.Context)) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		notFound(c)
	case errors.Is(err, database.ErrConflict), errors.Is(err, database.ErrInvalidReference):
		respondConflict(c)
	default:
		respondInternalError(c, logger, err, op)
	}
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, MessageInvalidID)
		return 0, false
	}
	return uint(id), true
}

// parsePage reads page and limit query parameters. A missing or invalid
// limit falls back to the default, one above maxLimit is capped.
func parsePage(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
