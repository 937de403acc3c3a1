// Package httputil provides the HTTP plumbing shared by all handlers:
// JSON encoding and decoding, request parsing, middleware, and the single
// place where domain errors are translated to HTTP status codes.
//
// Handlers never pick status codes for domain failures themselves; they pass
// the error to WriteDomainError and the mapping happens exactly once.
package httputil
