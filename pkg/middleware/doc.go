// Package middleware provides token authentication for HTTP routes.
//
// Authenticate decodes a Bearer token into claims and stores them in the
// request context; it does not enforce anything, so routes with optional
// authentication use it directly. Role and password-change enforcement
// happens in handlers through authz.Authorize, which sees the claims pulled
// back out with ClaimsFromContext.
package middleware
