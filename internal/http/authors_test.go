package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/entities"
)

func TestAuthorsController_CRUD(t *testing.T) {
	s := newTestServer(t)

	created := s.createAuthor("Jane", "Austen")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Jane", created.FirstName)

	t.Run("list", func(t *testing.T) {
		w := s.do(http.MethodGet, "/authors", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []entities.Author
		env := decode(t, w, &list)
		assert.Equal(t, "ok", env.Message)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})

	t.Run("get", func(t *testing.T) {
		w := s.do(http.MethodGet, "/authors/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got entities.Author
		decode(t, w, &got)
		assert.Equal(t, "Austen", got.LastName)
	})

	t.Run("update", func(t *testing.T) {
		w := s.do(http.MethodPut, "/authors/1", map[string]any{"firstName": "Janet", "lastName": "Austen", "id": 99})
		require.Equal(t, http.StatusOK, w.Code)
		var got entities.Author
		decode(t, w, &got)
		assert.Equal(t, created.ID, got.ID, "id in the body is ignored")
		assert.Equal(t, "Janet", got.FirstName)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(http.MethodDelete, "/authors/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got entities.Author
		decode(t, w, &got)
		assert.Equal(t, created.ID, got.ID)

		w = s.do(http.MethodGet, "/authors/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	kinds := []entities.AuditEventType{}
	for _, m := range s.auditor.recorded() {
		assert.Equal(t, "author", m.entityType)
		kinds = append(kinds, m.eventType)
	}
	assert.Equal(t, []entities.AuditEventType{entities.AuditEventCreate, entities.AuditEventUpdate, entities.AuditEventDelete}, kinds)
}

func TestAuthorsController_EmptyList(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/authors", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"message":"ok"}`, w.Body.String())
}

func TestAuthorsController_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		fields map[string]string
	}{
		{
			name: "short first name",
			body: map[string]any{"firstName": "Jo", "lastName": "Austen"},
			fields: map[string]string{
				"firstName": "Author requires `firstName` and should be minimum 3 characters long",
			},
		},
		{
			name: "empty body",
			body: nil,
			fields: map[string]string{
				"firstName": "Author requires `firstName` and should be minimum 3 characters long",
				"lastName":  "Author requires `lastName` and should be minimum 3 characters long",
			},
		},
		{
			name:   "malformed json",
			body:   `{"firstName":`,
			fields: map[string]string{"body": "request body must be a valid JSON object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/authors", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.fields, fieldMessages(t, w))
		})
	}

	assert.Empty(t, s.auditor.recorded())
}

func TestAuthorsController_NotFound(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"firstName": "Jane", "lastName": "Austen"}

	tests := []struct {
		method  string
		path    string
		body    any
		message string
	}{
		{http.MethodGet, "/authors/42", nil, "not found"},
		{http.MethodGet, "/authors/42/books", nil, "not found"},
		{http.MethodPut, "/authors/42", body, "resource not found"},
		{http.MethodDelete, "/authors/42", nil, "resource not found"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			env := decode(t, w, nil)
			assert.Equal(t, tt.message, env.Message)
			assert.Equal(t, "null", string(env.Data))
		})
	}
}

func TestAuthorsController_InvalidID(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/authors/abc", "/authors/-3", "/authors/abc/books"} {
		w := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"data":null,"message":"invalid id"}`, w.Body.String())
	}
}

func TestAuthorsController_DeleteKeepsBooks(t *testing.T) {
	s := newTestServer(t)
	author := s.createAuthor("Jane", "Austen")
	book := s.createBook(map[string]any{"title": "Pride and Prejudice", "authorId": author.ID})

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/authors/1", nil).Code)

	w := s.do(http.MethodGet, "/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got entities.Book
	decode(t, w, &got)
	assert.Equal(t, book.ID, got.ID)
	assert.Nil(t, got.AuthorID)

	w = s.do(http.MethodGet, "/books/1/author", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":null,"message":"ok"}`, w.Body.String())
}
