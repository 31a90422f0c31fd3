package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/logging"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// BookStore defines database operations for books and their relations.
type BookStore interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	CreateBook(ctx context.Context, book *entities.Book, genreIDs []uint) error
	UpdateBook(ctx context.Context, id uint, patch entities.BookPatch) (*entities.Book, error)
	DeleteBook(ctx context.Context, id uint) (*entities.Book, error)
	GetBookAuthor(ctx context.Context, id uint) (*entities.Author, error)
	ListBookGenres(ctx context.Context, id uint) ([]entities.Genre, error)
}

const bookTitleMessage = "Book requires `title` and should be minimum 5 characters long"

type createBookRequest struct {
	Title       string `json:"title" binding:"required,min=5,max=512"`
	Subtitle    string `json:"subtitle" binding:"max=512"`
	Published   string `json:"published" binding:"max=64"`
	Publisher   string `json:"publisher" binding:"max=256"`
	Pages       int    `json:"pages" binding:"gte=0"`
	Description string `json:"description"`
	Website     string `json:"website" binding:"max=2048"`
	AuthorID    *uint  `json:"authorId" binding:"omitnil,gt=0"`
	GenreIDs    []uint `json:"genreIds" binding:"omitempty,dive,gt=0"`
}

func (createBookRequest) FieldMessages() map[string]string {
	return map[string]string{"title": bookTitleMessage}
}

// updateBookRequest is partial: absent keys leave the column alone.
type updateBookRequest struct {
	Title       *string             `json:"title" binding:"omitnil,min=5,max=512"`
	Subtitle    *string             `json:"subtitle" binding:"omitnil,max=512"`
	Published   *string             `json:"published" binding:"omitnil,max=64"`
	Publisher   *string             `json:"publisher" binding:"omitnil,max=256"`
	Pages       *int                `json:"pages" binding:"omitnil,gte=0"`
	Description *string             `json:"description"`
	Website     *string             `json:"website" binding:"omitnil,max=2048"`
	AuthorID    entities.NullableID `json:"authorId"`
}

func (updateBookRequest) FieldMessages() map[string]string {
	return map[string]string{"title": bookTitleMessage}
}

func (r updateBookRequest) patch() entities.BookPatch {
	return entities.BookPatch{
		Title:       r.Title,
		Subtitle:    r.Subtitle,
		Published:   r.Published,
		Publisher:   r.Publisher,
		Pages:       r.Pages,
		Description: r.Description,
		Website:     r.Website,
		AuthorID:    r.AuthorID,
	}
}

type BooksController struct {
	store   BookStore
	auditor Auditor
	logger  hclog.Logger
}

func NewBooksController(store BookStore, auditor Auditor, logger hclog.Logger) *BooksController {
	return &BooksController{
		store:   store,
		auditor: auditorOrNoop(auditor),
		logger:  logging.OrDiscard(logger),
	}
}

// List returns every book.
// GET /books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.store.ListBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, bc.logger, err, "list books")
		return
	}
	respondOK(c, books)
}

// Get returns one book.
// GET /books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBook(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, bc.logger, err, "get book", respondNotFound)
		return
	}
	respondOK(c, book)
}

// Create adds a book and links it to genreIds in one transaction.
// POST /books
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	book := &entities.Book{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Published:   req.Published,
		Publisher:   req.Publisher,
		Pages:       req.Pages,
		Description: req.Description,
		Website:     req.Website,
		AuthorID:    req.AuthorID,
	}
	if err := bc.store.CreateBook(c.Request.Context(), book, req.GenreIDs); err != nil {
		respondStoreError(c, bc.logger, err, "create book", respondNotFound)
		return
	}

	bc.auditor.LogMutation(GetUserID(c), entities.AuditEventCreate, "book", book.ID, book.Title)
	respondOK(c, book)
}

// Update changes the fields present in the body.
// PUT /books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	book, err := bc.store.UpdateBook(c.Request.Context(), id, req.patch())
	if err != nil {
		respondStoreError(c, bc.logger, err, "update book", respondResourceNotFound)
		return
	}

	bc.auditor.LogMutation(GetUserID(c), entities.AuditEventUpdate, "book", book.ID, book.Title)
	respondOK(c, book)
}

// Delete removes a book and its genre links.
// DELETE /books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.DeleteBook(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, bc.logger, err, "delete book", respondResourceNotFound)
		return
	}

	bc.auditor.LogMutation(GetUserID(c), entities.AuditEventDelete, "book", book.ID, book.Title)
	respondOK(c, book)
}

// Author returns the book's author, or null data when it has none.
// GET /books/:id/author
func (bc *BooksController) Author(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := bc.store.GetBookAuthor(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, bc.logger, err, "get book author", respondNotFound)
		return
	}
	if author == nil {
		respondOK(c, nil)
		return
	}
	respondOK(c, author)
}

// Genres lists the book's genres.
// GET /books/:id/genres
func (bc *BooksController) Genres(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genres, err := bc.store.ListBookGenres(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, bc.logger, err, "list book genres", respondNotFound)
		return
	}
	respondOK(c, genres)
}
