package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/dbtest"
	"github.com/mrlokans/library-catalog/internal/database/genres"
	"github.com/mrlokans/library-catalog/internal/database/users"
	"github.com/mrlokans/library-catalog/internal/entities"
)

type mutation struct {
	userID     uint
	eventType  entities.AuditEventType
	entityType string
	entityID   uint
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []mutation
}

func (r *recordingAuditor) LogMutation(userID uint, eventType entities.AuditEventType, entityType string, entityID uint, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, mutation{userID: userID, eventType: eventType, entityType: entityType, entityID: entityID})
}

func (r *recordingAuditor) recorded() []mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mutation(nil), r.events...)
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	db      *database.Database
	tokens  *auth.TokenCodec
	auditor *recordingAuditor
}

// newTestServer wires the full router over a fresh SQLite database.
func newTestServer(t *testing.T, mutate ...func(*RouterConfig)) *testServer {
	t.Helper()
	db := dbtest.OpenDatabase(t)
	tokens := auth.NewTokenCodec("router-secret", time.Hour)
	service := auth.NewService(users.NewRepository(db.DB), tokens, 4)
	auditor := &recordingAuditor{}

	cfg := RouterConfig{
		Authors:        authors.NewRepository(db.DB),
		Books:          books.NewRepository(db.DB),
		Genres:         genres.NewRepository(db.DB),
		AuthHandlers:   auth.NewHandlers(service, auth.HandlersConfig{}),
		Guard:          auth.NewGuard(tokens),
		AuthMode:       config.AuthModeNone,
		Auditor:        auditor,
		Database:       db,
		Metrics:        NewMetrics(),
		Version:        "test",
		AllowedOrigins: []string{"http://localhost:4000", "http://localhost:6969"},
		RequestTimeout: 5 * time.Second,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	return &testServer{t: t, router: NewRouter(cfg), db: db, tokens: tokens, auditor: auditor}
}

func (s *testServer) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.doWithHeader(method, path, body, nil, cookies...)
}

func (s *testServer) doWithHeader(method, path string, body any, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) sessionCookie(userID uint) *http.Cookie {
	s.t.Helper()
	token, err := s.tokens.Sign(userID, "reader@example.com")
	require.NoError(s.t, err)
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) createAuthor(first, last string) entities.Author {
	s.t.Helper()
	w := s.do(http.MethodPost, "/authors", map[string]any{"firstName": first, "lastName": last})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var author entities.Author
	decode(s.t, w, &author)
	return author
}

func (s *testServer) createGenre(title string) entities.Genre {
	s.t.Helper()
	w := s.do(http.MethodPost, "/genres", map[string]any{"title": title})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var genre entities.Genre
	decode(s.t, w, &genre)
	return genre
}

func (s *testServer) createBook(body map[string]any) entities.Book {
	s.t.Helper()
	w := s.do(http.MethodPost, "/books", body)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var book entities.Book
	decode(s.t, w, &book)
	return book
}

func fieldMessages(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	out := map[string]string{}
	for _, e := range body.Errors {
		out[e.Field] = e.Message
	}
	return out
}
