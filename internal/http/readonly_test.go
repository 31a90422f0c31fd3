package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_ReadOnly(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) { cfg.ReadOnly = true })

	w := s.do(http.MethodPost, "/authors", map[string]any{"firstName": "Jane", "lastName": "Doe"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"data":null,"message":"catalog is read-only"}`, w.Body.String())

	w = s.do(http.MethodGet, "/authors", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Accounts stay usable
	w = s.do(http.MethodPost, "/sign-up", map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"password":  "secret-pass",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, s.auditor.recorded())
}
