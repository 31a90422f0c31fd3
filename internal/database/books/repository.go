// Package books provides database operations for catalog books and their
// genre links.
package books

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns every book ordered by ID.
func (r *Repository) ListBooks(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	if err := r.db.WithContext(ctx).Order("id").Find(&books).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return books, nil
}

func (r *Repository) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &book, nil
}

// CreateBook inserts the book and links it to genreIDs in one transaction.
// An unknown author or genre rolls everything back with
// database.ErrInvalidReference.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book, genreIDs []uint) error {
	genreIDs = uniqueIDs(genreIDs)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if book.AuthorID != nil {
			if err := requireAuthor(tx, *book.AuthorID); err != nil {
				return err
			}
		}
		if err := requireGenres(tx, genreIDs); err != nil {
			return err
		}

		if err := tx.Create(book).Error; err != nil {
			return err
		}
		if len(genreIDs) == 0 {
			return nil
		}

		links := make([]entities.BookGenre, 0, len(genreIDs))
		for _, genreID := range genreIDs {
			links = append(links, entities.BookGenre{BookID: book.ID, GenreID: genreID})
		}
		return tx.Create(&links).Error
	})
	return database.TranslateError(err)
}

// UpdateBook applies the patch and returns the stored row. An empty patch
// returns the book unchanged.
func (r *Repository) UpdateBook(ctx context.Context, id uint, patch entities.BookPatch) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		if patch.AuthorID.Set && patch.AuthorID.Value != nil {
			if err := requireAuthor(tx, *patch.AuthorID.Value); err != nil {
				return err
			}
		}

		cols := patch.Columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&book).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&book, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &book, nil
}

// DeleteBook removes the book with its genre links and returns the deleted row.
func (r *Repository) DeleteBook(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &book, nil
}

// GetBookAuthor returns the book's author, or nil when the book has none.
// A missing book yields database.ErrNotFound.
func (r *Repository) GetBookAuthor(ctx context.Context, id uint) (*entities.Author, error) {
	var author *entities.Author
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Select("id", "author_id").First(&book, id).Error; err != nil {
			return err
		}
		if book.AuthorID == nil {
			return nil
		}
		var a entities.Author
		if err := tx.First(&a, *book.AuthorID).Error; err != nil {
			return err
		}
		author = &a
		return nil
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return author, nil
}

// ListBookGenres returns the genres linked to the book.
func (r *Repository) ListBookGenres(ctx context.Context, id uint) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&entities.Book{}, id).Error; err != nil {
			return err
		}
		return tx.
			Joins("JOIN book_genres ON book_genres.genre_id = genres.id").
			Where("book_genres.book_id = ?", id).
			Order("genres.id").
			Find(&genres).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return genres, nil
}

func requireAuthor(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&entities.Author{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: author %d", database.ErrInvalidReference, id)
	}
	return nil
}

func requireGenres(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&entities.Genre{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: unknown genre in %v", database.ErrInvalidReference, ids)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
