package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library-catalog/internal/audit"
	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/database"
	auditrepo "github.com/mrlokans/library-catalog/internal/database/audit"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/genres"
	"github.com/mrlokans/library-catalog/internal/database/users"
	"github.com/mrlokans/library-catalog/internal/http"
	"github.com/mrlokans/library-catalog/internal/scheduler"
	"github.com/mrlokans/library-catalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.AuthorStore = (*authors.Repository)(nil)
var _ http.BookStore = (*books.Repository)(nil)
var _ http.GenreStore = (*genres.Repository)(nil)
var _ auth.UserStore = (*users.Repository)(nil)
var _ audit.Store = (*auditrepo.Repository)(nil)

// Health checks
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.Auditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ auth.Auditor = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.InlineCleanup)(nil)
