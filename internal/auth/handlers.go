package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/mrlokans/library-catalog/internal/api"
	"github.com/mrlokans/library-catalog/internal/logging"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// Response messages for the auth endpoints.
const (
	MessageUserNotFound         = "error not found"
	MessageIncorrectCredentials = "incorrect credentials"
	MessageNotAuthenticated     = "not authenticated"
	MessageInvalidJWT           = "jwt is not valid"
	MessageTooManyAttempts      = "too many sign-in attempts"
)

// Auditor records authentication events.
type Auditor interface {
	LogAuth(userID uint, action, ipAddr, userAgent string, success bool)
}

// HandlersConfig wires the optional collaborators of Handlers.
type HandlersConfig struct {
	Cookie  CookieOptions
	Limiter *RateLimiter // nil disables sign-in lockout
	Auditor Auditor      // nil disables auth auditing
	Logger  hclog.Logger
}

// Handlers serves /sign-up, /sign-in, /sign-out and /me.
type Handlers struct {
	service *Service
	cookie  CookieOptions
	limiter *RateLimiter
	auditor Auditor
	logger  hclog.Logger
}

func NewHandlers(service *Service, cfg HandlersConfig) *Handlers {
	if cfg.Cookie.TTL <= 0 {
		cfg.Cookie.TTL = service.Tokens().TTL()
	}
	return &Handlers{
		service: service,
		cookie:  cfg.Cookie,
		limiter: cfg.Limiter,
		auditor: cfg.Auditor,
		logger:  logging.OrDiscard(cfg.Logger),
	}
}

type signUpRequest struct {
	FirstName string `json:"firstName" binding:"required,min=3,max=100"`
	LastName  string `json:"lastName" binding:"required,min=3,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=5,max=72"`
}

func (signUpRequest) FieldMessages() map[string]string {
	return map[string]string{
		"firstName": "Sign Up requires `firstName` and should be minimum 3 characters long",
		"lastName":  "Sign Up requires `lastName` and should be minimum 3 characters long",
		"email":     "Sign Up requires a valid `email`",
		"password":  "Sign Up requires `password` and should be 5 to 72 characters long",
	}
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
}

func (signInRequest) FieldMessages() map[string]string {
	return map[string]string{
		"email":    "Sign In requires a valid `email`",
		"password": "Sign In requires a valid `password`",
	}
}

// SignUp handles POST /sign-up.
func (h *Handlers) SignUp(c *gin.Context) {
	var req signUpRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	session, err := h.service.SignUp(c.Request.Context(), SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	switch {
	case errors.Is(err, ErrEmailTaken):
		h.audit(c, AnonymousUserID, "sign_up", false)
		api.Fail(c, http.StatusConflict, api.MessageConflict)
		return
	case err != nil:
		h.internalError(c, err, "sign-up")
		return
	}

	h.audit(c, session.User.ID, "sign_up", true)
	SetSessionCookie(c, session.Token, h.cookie)
	api.OK(c, session.User.Public())
}

// SignIn handles POST /sign-in.
func (h *Handlers) SignIn(c *gin.Context) {
	var req signInRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	ip := c.ClientIP()
	email := NormalizeEmail(req.Email)
	if h.limiter != nil {
		if allowed, retryAfter := h.limiter.Allow(ip, email); !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			api.Fail(c, http.StatusTooManyRequests, MessageTooManyAttempts)
			return
		}
	}

	session, err := h.service.SignIn(c.Request.Context(), email, req.Password)
	switch {
	case errors.Is(err, ErrUserNotFound):
		h.recordFailure(c, ip, email)
		api.Fail(c, http.StatusNotFound, MessageUserNotFound)
		return
	case errors.Is(err, ErrInvalidCredentials):
		h.recordFailure(c, ip, email)
		api.Fail(c, http.StatusUnauthorized, MessageIncorrectCredentials)
		return
	case err != nil:
		h.internalError(c, err, "sign-in")
		return
	}

	if h.limiter != nil {
		h.limiter.RecordSuccess(ip, email)
	}
	h.audit(c, session.User.ID, "sign_in", true)
	SetSessionCookie(c, session.Token, h.cookie)
	api.OK(c, session.User.Public())
}

// SignOut handles POST /sign-out. It always succeeds.
func (h *Handlers) SignOut(c *gin.Context) {
	if claims, err := h.service.Tokens().Verify(SessionToken(c)); err == nil {
		h.audit(c, claims.UserID, "sign_out", true)
	}
	ClearSessionCookie(c, h.cookie)
	api.OK(c, nil)
}

// Me handles GET /me.
func (h *Handlers) Me(c *gin.Context) {
	token := SessionToken(c)
	if token == "" {
		api.Fail(c, http.StatusUnauthorized, MessageNotAuthenticated)
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), token)
	switch {
	case errors.Is(err, ErrInvalidToken):
		api.Fail(c, http.StatusUnauthorized, MessageInvalidJWT)
		return
	case errors.Is(err, ErrUserNotFound):
		api.Fail(c, http.StatusNotFound, api.MessageNotFound)
		return
	case err != nil:
		h.internalError(c, err, "me")
		return
	}

	api.OK(c, user.Public())
}

func (h *Handlers) recordFailure(c *gin.Context, ip, email string) {
	h.audit(c, AnonymousUserID, "sign_in", false)
	if h.limiter == nil {
		return
	}
	if locked, _ := h.limiter.RecordFailure(ip, email); locked {
		h.logger.Warn("sign-in locked out", "ip", ip)
	}
}

func (h *Handlers) audit(c *gin.Context, userID uint, action string, success bool) {
	if h.auditor == nil {
		return
	}
	h.auditor.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
}

func (h *Handlers) internalError(c *gin.Context, err error, context string) {
	h.logger.Error("auth request failed", "op", context, "error", err)
	api.Fail(c, http.StatusInternalServerError, api.MessageInternalError)
}
