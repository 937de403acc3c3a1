// Package users implements account registration, login, and password
// management.
//
// Registration pre-checks email and username availability for friendly
// errors, but the store's unique indexes are what actually guarantee
// uniqueness under concurrency. Login failures never reveal whether the
// username or the password was wrong.
//
// Bootstrap seeds the initial superadmin account: username "admin", password
// from configuration or generated, written to a file for the operator, with
// the must-change-password flag set so the seeded password cannot be used
// long term.
package users
