// Package auth provides account sign-up and sign-in, session tokens and
// the gin middleware that guards catalog routes.
//
// A session is a signed HS256 token carrying the user id and email. It is
// handed to the client in the HttpOnly "sessionId" cookie and expires
// together with it; the server keeps no session state.
//
// # Guard modes
//
// CATALOG_AUTH picks which catalog routes need a session:
//
//	CATALOG_AUTH=none    # every catalog route is public (default)
//	CATALOG_AUTH=writes  # POST/PUT/DELETE need a session
//	CATALOG_AUTH=all     # every catalog route needs a session
//
// # Usage
//
//	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
//	service := auth.NewService(users.NewRepository(db), tokens, cfg.Auth.BcryptCost)
//	guard := auth.NewGuard(tokens)
//	router.Group("/authors", guard.ForMode(cfg.Auth.Mode))
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c) // AnonymousUserID when signed out
package auth
