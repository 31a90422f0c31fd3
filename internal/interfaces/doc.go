// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - AuthorStore: Author CRUD and the author's books (internal/http/authors.go)
//   - BookStore: Book CRUD, author and genre relations (internal/http/books.go)
//   - GenreStore: Genre CRUD and the genre's books (internal/http/genres.go)
//   - UserStore: Account lookup and creation (internal/auth/service.go)
//   - audit.Store: Audit event persistence (internal/audit/service.go)
//
// ## Audit Interfaces
//
//   - http.Auditor: Records catalog mutations (internal/http/auditor.go)
//   - http.AuditReader: Lists a user's events (internal/http/audit.go)
//   - auth.Auditor: Records sign-up, sign-in and sign-out (internal/auth/handlers.go)
//
// ## Background Work Interfaces
//
//   - AuditEventCleaner: Deletes expired audit events (internal/tasks/cleanup_audit.go)
//   - CleanupEnqueuer: Hands cleanup runs to the queue or runs them inline
//     (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Catalog Resource
//
// To add a new resource (e.g., publishers):
//
//  1. Add the GORM model to internal/entities and to Database.Migrate.
//
//  2. Create sub-package internal/database/publishers/:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//     Translate driver errors with database.TranslateError so the handlers
//     can map them to 404 and 409.
//
//  3. Define the store interface and controller in internal/http/:
//
//     type PublisherStore interface {
//         ListPublishers(ctx context.Context) ([]entities.Publisher, error)
//     }
//
//  4. Register routes in router.go behind the auth gate.
//
//  5. Add compile-time check:
//
//     var _ http.PublisherStore = (*publishers.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
