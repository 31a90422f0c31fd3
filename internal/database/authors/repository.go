// Package authors provides database operations for catalog authors.
package authors

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

// ListAuthors returns every author ordered by ID.
func (r *Repository) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	authors := []entities.Author{}
	if err := r.db.WithContext(ctx).Order("id").Find(&authors).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return authors, nil
}

func (r *Repository) GetAuthor(ctx context.Context, id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.WithContext(ctx).First(&author, id).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &author, nil
}

func (r *Repository) CreateAuthor(ctx context.Context, author *entities.Author) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(author).Error)
}

// UpdateAuthor overwrites the author's names and returns the stored row.
func (r *Repository) UpdateAuthor(ctx context.Context, id uint, firstName, lastName string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, id).Error; err != nil {
			return err
		}
		err := tx.Model(&author).Updates(map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
		}).Error
		if err != nil {
			return err
		}
		return tx.First(&author, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &author, nil
}

// DeleteAuthor removes the author and detaches its books. The deleted row is
// returned.
func (r *Repository) DeleteAuthor(ctx context.Context, id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, id).Error; err != nil {
			return err
		}
		err := tx.Model(&entities.Book{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&entities.Author{}, id).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &author, nil
}

// ListAuthorBooks returns the author's books. A missing author yields
// database.ErrNotFound.
func (r *Repository) ListAuthorBooks(ctx context.Context, id uint) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&entities.Author{}, id).Error; err != nil {
			return err
		}
		return tx.Where("author_id = ?", id).Order("id").Find(&books).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return books, nil
}
