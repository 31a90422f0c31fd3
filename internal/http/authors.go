package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/logging"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// AuthorStore defines database operations for authors.
type AuthorStore interface {
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	GetAuthor(ctx context.Context, id uint) (*entities.Author, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error
	UpdateAuthor(ctx context.Context, id uint, firstName, lastName string) (*entities.Author, error)
	DeleteAuthor(ctx context.Context, id uint) (*entities.Author, error)
	ListAuthorBooks(ctx context.Context, id uint) ([]entities.Book, error)
}

type authorRequest struct {
	FirstName string `json:"firstName" binding:"required,min=3,max=100"`
	LastName  string `json:"lastName" binding:"required,min=3,max=100"`
}

func (authorRequest) FieldMessages() map[string]string {
	return map[string]string{
		"firstName": "Author requires `firstName` and should be minimum 3 characters long",
		"lastName":  "Author requires `lastName` and should be minimum 3 characters long",
	}
}

type AuthorsController struct {
	store   AuthorStore
	auditor Auditor
	logger  hclog.Logger
}

func NewAuthorsController(store AuthorStore, auditor Auditor, logger hclog.Logger) *AuthorsController {
	return &AuthorsController{
		store:   store,
		auditor: auditorOrNoop(auditor),
		logger:  logging.OrDiscard(logger),
	}
}

// List returns every author.
// GET /authors
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.store.ListAuthors(c.Request.Context())
	if err != nil {
		respondInternalError(c, ac.logger, err, "list authors")
		return
	}
	respondOK(c, authors)
}

// Get returns one author.
// GET /authors/:id
func (ac *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetAuthor(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, ac.logger, err, "get author", respondNotFound)
		return
	}
	respondOK(c, author)
}

// Create adds an author.
// POST /authors
func (ac *AuthorsController) Create(c *gin.Context) {
	var req authorRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	author := &entities.Author{FirstName: req.FirstName, LastName: req.LastName}
	if err := ac.store.CreateAuthor(c.Request.Context(), author); err != nil {
		respondStoreError(c, ac.logger, err, "create author", respondNotFound)
		return
	}

	ac.auditor.LogMutation(GetUserID(c), entities.AuditEventCreate, "author", author.ID, authorName(author))
	respondOK(c, author)
}

// Update replaces an author's names.
// PUT /authors/:id
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req authorRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	author, err := ac.store.UpdateAuthor(c.Request.Context(), id, req.FirstName, req.LastName)
	if err != nil {
		respondStoreError(c, ac.logger, err, "update author", respondResourceNotFound)
		return
	}

	ac.auditor.LogMutation(GetUserID(c), entities.AuditEventUpdate, "author", author.ID, authorName(author))
	respondOK(c, author)
}

// Delete removes an author. Their books stay, without an author.
// DELETE /authors/:id
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.DeleteAuthor(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, ac.logger, err, "delete author", respondResourceNotFound)
		return
	}

	ac.auditor.LogMutation(GetUserID(c), entities.AuditEventDelete, "author", author.ID, authorName(author))
	respondOK(c, author)
}

// Books lists the author's books.
// GET /authors/:id/books
func (ac *AuthorsController) Books(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := ac.store.ListAuthorBooks(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, ac.logger, err, "list author books", respondNotFound)
		return
	}
	respondOK(c, books)
}

func authorName(a *entities.Author) string {
	return a.FirstName + " " + a.LastName
}
