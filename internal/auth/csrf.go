package auth

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/mrlokans/library-catalog/internal/api"
)

// CSRFTokenHeader carries the token in both directions: responses expose a
// fresh token, unsafe requests must echo it back.
const CSRFTokenHeader = "X-CSRF-Token"

// MessageCSRFInvalid is sent with 403 when the token check fails.
const MessageCSRFInvalid = "CSRF token invalid or missing"

// CSRFMiddleware protects unsafe methods with a double-submit token. Every
// response carries the current token in the X-CSRF-Token header. When
// secure is false the request is marked plaintext so local HTTP works.
// trustedOrigins are the CORS origins allowed to submit cross-site.
func CSRFMiddleware(secret []byte, secure bool, trustedOrigins []string) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.TrustedOrigins(originHosts(trustedOrigins)),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Header(CSRFTokenHeader, csrf.Token(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(api.Envelope{Data: nil, Message: MessageCSRFInvalid})
}

// originHosts reduces origins like "http://localhost:4000" to the host form
// the CSRF origin check compares against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			hosts = append(hosts, o)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
