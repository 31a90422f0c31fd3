package http

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Catalog stores
	Authors AuthorStore
	Books   BookStore
	Genres  GenreStore

	// Authentication
	AuthHandlers *auth.Handlers
	Guard        *auth.Guard
	AuthMode     config.AuthMode
	ReadOnly     bool // reject catalog writes

	// Audit log. Auditor may be nil; AuditReader nil disables /me/events.
	Auditor     Auditor
	AuditReader AuditReader

	// Health and metrics
	Database Pinger
	Metrics  *Metrics
	Version  string

	// Cross-origin and request protection
	AllowedOrigins []string
	SecureCookies  bool
	CSRFSecret     []byte         // empty disables CSRF
	TrustedProxies []string       // nil trusts no proxy, ClientIP is the peer address
	IPLimiter      *IPRateLimiter // nil disables the per-IP limiter
	RequestTimeout time.Duration

	Logger hclog.Logger
}
