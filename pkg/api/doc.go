// Package api exposes the registry over HTTP.
//
// Handlers are thin: they decode JSON, authorize the principal through
// authz.Authorize, call one service method, and write the result. Domain
// errors flow to httputil.WriteDomainError untouched, so status-code mapping
// lives in exactly one place.
package api
