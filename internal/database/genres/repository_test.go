package genres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/database/dbtest"
	"github.com/mrlokans/library-catalog/internal/entities"
)

func TestRepository_GenreLifecycle(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	genre := &entities.Genre{Title: "Fiction"}
	require.NoError(t, repo.CreateGenre(ctx, genre))
	assert.NotZero(t, genre.ID)

	got, err := repo.GetGenre(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fiction", got.Title)

	updated, err := repo.UpdateGenre(ctx, genre.ID, "Science Fiction")
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", updated.Title)

	all, err := repo.ListGenres(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	deleted, err := repo.DeleteGenre(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", deleted.Title)

	_, err = repo.GetGenre(ctx, genre.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_MissingGenre(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	_, err := repo.UpdateGenre(ctx, 5, "Poetry")
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = repo.DeleteGenre(ctx, 5)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = repo.ListGenreBooks(ctx, 5)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_ListGenreBooks(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	fiction := &entities.Genre{Title: "Fiction"}
	poetry := &entities.Genre{Title: "Poetry"}
	require.NoError(t, repo.CreateGenre(ctx, fiction))
	require.NoError(t, repo.CreateGenre(ctx, poetry))

	novel := &entities.Book{Title: "A Long Novel"}
	verses := &entities.Book{Title: "Collected Verses"}
	require.NoError(t, db.Create(novel).Error)
	require.NoError(t, db.Create(verses).Error)
	require.NoError(t, db.Create(&[]entities.BookGenre{
		{BookID: novel.ID, GenreID: fiction.ID},
		{BookID: verses.ID, GenreID: poetry.ID},
	}).Error)

	books, err := repo.ListGenreBooks(ctx, fiction.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "A Long Novel", books[0].Title)

	empty := &entities.Genre{Title: "Drama"}
	require.NoError(t, repo.CreateGenre(ctx, empty))
	books, err = repo.ListGenreBooks(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestRepository_DeleteGenre_UnlinksBooks(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	genre := &entities.Genre{Title: "Fiction"}
	require.NoError(t, repo.CreateGenre(ctx, genre))
	book := &entities.Book{Title: "A Long Novel"}
	require.NoError(t, db.Create(book).Error)
	require.NoError(t, db.Create(&entities.BookGenre{BookID: book.ID, GenreID: genre.ID}).Error)

	_, err := repo.DeleteGenre(ctx, genre.ID)
	require.NoError(t, err)

	var links int64
	require.NoError(t, db.Model(&entities.BookGenre{}).Count(&links).Error)
	assert.Zero(t, links)

	var remaining int64
	require.NoError(t, db.Model(&entities.Book{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
