package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/logging"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// GenreStore defines database operations for genres.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenre(ctx context.Context, id uint) (*entities.Genre, error)
	CreateGenre(ctx context.Context, genre *entities.Genre) error
	UpdateGenre(ctx context.Context, id uint, title string) (*entities.Genre, error)
	DeleteGenre(ctx context.Context, id uint) (*entities.Genre, error)
	ListGenreBooks(ctx context.Context, id uint) ([]entities.Book, error)
}

type genreRequest struct {
	Title string `json:"title" binding:"required,min=3,max=100"`
}

func (genreRequest) FieldMessages() map[string]string {
	return map[string]string{
		"title": "Genre requires `title` and should be minimum 3 characters long",
	}
}

type GenresController struct {
	store   GenreStore
	auditor Auditor
	logger  hclog.Logger
}

func NewGenresController(store GenreStore, auditor Auditor, logger hclog.Logger) *GenresController {
	return &GenresController{
		store:   store,
		auditor: auditorOrNoop(auditor),
		logger:  logging.OrDiscard(logger),
	}
}

// List returns every genre.
// GET /genres
func (gc *GenresController) List(c *gin.Context) {
	genres, err := gc.store.ListGenres(c.Request.Context())
	if err != nil {
		respondInternalError(c, gc.logger, err, "list genres")
		return
	}
	respondOK(c, genres)
}

// Get returns one genre.
// GET /genres/:id
func (gc *GenresController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.store.GetGenre(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, gc.logger, err, "get genre", respondNotFound)
		return
	}
	respondOK(c, genre)
}

// Create adds a genre.
// POST /genres
func (gc *GenresController) Create(c *gin.Context) {
	var req genreRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	genre := &entities.Genre{Title: req.Title}
	if err := gc.store.CreateGenre(c.Request.Context(), genre); err != nil {
		respondStoreError(c, gc.logger, err, "create genre", respondNotFound)
		return
	}

	gc.auditor.LogMutation(GetUserID(c), entities.AuditEventCreate, "genre", genre.ID, genre.Title)
	respondOK(c, genre)
}

// Update renames a genre.
// PUT /genres/:id
func (gc *GenresController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req genreRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	genre, err := gc.store.UpdateGenre(c.Request.Context(), id, req.Title)
	if err != nil {
		respondStoreError(c, gc.logger, err, "update genre", respondResourceNotFound)
		return
	}

	gc.auditor.LogMutation(GetUserID(c), entities.AuditEventUpdate, "genre", genre.ID, genre.Title)
	respondOK(c, genre)
}

// Delete removes a genre and its book links.
// DELETE /genres/:id
func (gc *GenresController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.store.DeleteGenre(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, gc.logger, err, "delete genre", respondResourceNotFound)
		return
	}

	gc.auditor.LogMutation(GetUserID(c), entities.AuditEventDelete, "genre", genre.ID, genre.Title)
	respondOK(c, genre)
}

// Books lists the books filed under the genre.
// GET /genres/:id/books
func (gc *GenresController) Books(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := gc.store.ListGenreBooks(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, gc.logger, err, "list genre books", respondNotFound)
		return
	}
	respondOK(c, books)
}
