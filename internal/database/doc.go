// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or mysql) and migrations
//	├── errors.go        # Store error taxonomy shared by all repositories
//	├── authors/         # Author CRUD and author → books
//	├── books/           # Book CRUD, book → author, book → genres
//	├── genres/          # Genre CRUD and genre → books
//	├── users/           # Account lookup and creation
//	├── audit/           # Audit event storage and pruning
//	└── dbtest/          # Throwaway SQLite databases for tests
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(database.Options{Path: "./catalog.db"})
//	if err := db.Migrate(); err != nil { ... }
//
//	authorsRepo := authors.NewRepository(db.DB)
//	author, err := authorsRepo.GetAuthor(ctx, 1)
//	if errors.Is(err, database.ErrNotFound) { ... }
//
// # Errors
//
// Every repository method passes store failures through TranslateError,
// so callers only need to recognise ErrNotFound, ErrConflict and
// ErrInvalidReference. Unrecognised errors surface as-is and are treated
// as internal failures by the HTTP layer.
//
// # Deletes
//
// Deleting an author clears author_id on its books. Deleting a book or a
// genre removes the matching book_genres rows. Both run in one transaction.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the store interface the HTTP layer declares
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
