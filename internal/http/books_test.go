package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/entities"
)

func genreIDs(genres []entities.Genre) []uint {
	ids := make([]uint, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func TestBooksController_CreateWithGenres(t *testing.T) {
	s := newTestServer(t)
	fantasy := s.createGenre("Fantasy")
	s.createGenre("Mystery")
	classic := s.createGenre("Classic")

	book := s.createBook(map[string]any{
		"title":    "The Hobbit",
		"pages":    310,
		"genreIds": []uint{classic.ID, fantasy.ID, fantasy.ID},
	})

	w := s.do(http.MethodGet, "/books/1/genres", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var genres []entities.Genre
	decode(t, w, &genres)
	assert.ElementsMatch(t, []uint{fantasy.ID, classic.ID}, genreIDs(genres))
	assert.Equal(t, 310, book.Pages)
}

func TestBooksController_CreateRollsBackOnUnknownReference(t *testing.T) {
	s := newTestServer(t)
	fantasy := s.createGenre("Fantasy")

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "unknown genre", body: map[string]any{"title": "The Hobbit", "genreIds": []uint{fantasy.ID, 77}}},
		{name: "unknown author", body: map[string]any{"title": "The Hobbit", "authorId": 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/books", tt.body)
			assert.Equal(t, http.StatusConflict, w.Code)
			assert.JSONEq(t, `{"data":null,"message":"Conflict"}`, w.Body.String())
		})
	}

	w := s.do(http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"message":"ok"}`, w.Body.String())
}

func TestBooksController_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		body  any
		field string
		msg   string
	}{
		{name: "short title", body: map[string]any{"title": "Dune"}, field: "title", msg: "Book requires `title` and should be minimum 5 characters long"},
		{name: "missing title", body: map[string]any{"pages": 10}, field: "title", msg: "Book requires `title` and should be minimum 5 characters long"},
		{name: "negative pages", body: map[string]any{"title": "The Hobbit", "pages": -1}, field: "pages"},
		{name: "wrong type", body: `{"title":"The Hobbit","pages":"many"}`, field: "pages", msg: "`pages` must be of type number"},
		{name: "zero genre id", body: map[string]any{"title": "The Hobbit", "genreIds": []uint{0}}, field: "genreIds[0]"},
		{name: "oversized title", body: map[string]any{"title": strings.Repeat("a", 513)}, field: "title"},
		{name: "oversized publisher", body: map[string]any{"title": "The Hobbit", "publisher": strings.Repeat("p", 257)}, field: "publisher"},
		{name: "oversized website", body: map[string]any{"title": "The Hobbit", "website": "https://" + strings.Repeat("w", 2048)}, field: "website"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/books", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			fields := fieldMessages(t, w)
			require.Contains(t, fields, tt.field)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, fields[tt.field])
			}
		})
	}
}

func TestBooksController_PartialUpdate(t *testing.T) {
	s := newTestServer(t)
	author := s.createAuthor("Jane", "Austen")
	s.createBook(map[string]any{
		"title":     "Pride and Prejudice",
		"publisher": "T. Egerton",
		"pages":     432,
		"authorId":  author.ID,
	})

	t.Run("only present fields change", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/1", map[string]any{"subtitle": "A Novel", "pages": 0})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got entities.Book
		decode(t, w, &got)
		assert.Equal(t, "Pride and Prejudice", got.Title)
		assert.Equal(t, "A Novel", got.Subtitle)
		assert.Equal(t, "T. Egerton", got.Publisher)
		assert.Equal(t, 0, got.Pages)
		require.NotNil(t, got.AuthorID)
		assert.Equal(t, author.ID, *got.AuthorID)
	})

	t.Run("short title rejected", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/1", map[string]any{"title": "Emma"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fieldMessages(t, w), "title")
	})

	t.Run("oversized title rejected", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/1", map[string]any{"title": strings.Repeat("a", 513)})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fieldMessages(t, w), "title")
	})

	t.Run("title at column width accepted", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/1", map[string]any{"title": strings.Repeat("a", 512)})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("empty title rejected", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/1", map[string]any{"title": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("null author detaches", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/1", `{"authorId":null}`)
		require.Equal(t, http.StatusOK, w.Code)
		var got entities.Book
		decode(t, w, &got)
		assert.Nil(t, got.AuthorID)
	})

	t.Run("unknown author conflicts", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/1", map[string]any{"authorId": 404})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing book", func(t *testing.T) {
		w := s.do(http.MethodPut, "/books/99", map[string]any{"subtitle": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"data":null,"message":"resource not found"}`, w.Body.String())
	})
}

func TestBooksController_Relations(t *testing.T) {
	s := newTestServer(t)
	author := s.createAuthor("Ursula", "Le Guin")
	s.createBook(map[string]any{"title": "A Wizard of Earthsea", "authorId": author.ID})
	s.createBook(map[string]any{"title": "Anonymous Verses"})

	w := s.do(http.MethodGet, "/books/1/author", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got entities.Author
	decode(t, w, &got)
	assert.Equal(t, author.ID, got.ID)

	w = s.do(http.MethodGet, "/books/2/author", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":null,"message":"ok"}`, w.Body.String())

	for _, path := range []string{"/books/9", "/books/9/author", "/books/9/genres"} {
		w = s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"data":null,"message":"not found"}`, w.Body.String())
	}
}

func TestBooksController_Delete(t *testing.T) {
	s := newTestServer(t)
	fantasy := s.createGenre("Fantasy")
	book := s.createBook(map[string]any{"title": "The Hobbit", "genreIds": []uint{fantasy.ID}})

	w := s.do(http.MethodDelete, "/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted entities.Book
	decode(t, w, &deleted)
	assert.Equal(t, book.ID, deleted.ID)

	var links int64
	require.NoError(t, s.db.DB.Model(&entities.BookGenre{}).Count(&links).Error)
	assert.Zero(t, links)

	w = s.do(http.MethodDelete, "/books/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"data":null,"message":"resource not found"}`, w.Body.String())
}
