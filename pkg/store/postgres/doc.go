// Package postgres implements the store interfaces on PostgreSQL via
// database/sql and lib/pq.
//
// Schema management is a versioned, idempotent migration runner (see
// migrations.go). Unique-index violations are translated to
// registry.FieldTakenError by mapping the pq constraint name to the logical
// field, so the uniqueness guarantee holds under concurrent writers without
// any advisory locking.
package postgres
