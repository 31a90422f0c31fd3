// Package genres provides database operations for catalog genres.
package genres

import (
	"context"

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

func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	if err := r.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return genres, nil
}

func (r *Repository) GetGenre(ctx context.Context, id uint) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &genre, nil
}

func (r *Repository) CreateGenre(ctx context.Context, genre *entities.Genre) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(genre).Error)
}

func (r *Repository) UpdateGenre(ctx context.Context, id uint, title string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&genre, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&genre).Update("title", title).Error; err != nil {
			return err
		}
		return tx.First(&genre, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &genre, nil
}

// DeleteGenre removes the genre and unlinks it from every book.
func (r *Repository) DeleteGenre(ctx context.Context, id uint) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&genre, id).Error; err != nil {
			return err
		}
		if err := tx.Where("genre_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Genre{}, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &genre, nil
}

// ListGenreBooks returns the books linked to the genre.
func (r *Repository) ListGenreBooks(ctx context.Context, id uint) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&entities.Genre{}, id).Error; err != nil {
			return err
		}
		return tx.
			Joins("JOIN book_genres ON book_genres.book_id = books.id").
			Where("book_genres.genre_id = ?", id).
			Order("books.id").
			Find(&books).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return books, nil
}
