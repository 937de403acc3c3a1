package registry

import (
	"errors"
	"fmt"
)

// Entity names used in NotFoundError and NotInRelationshipError.
const (
	EntityUser         = "user"
	EntityOrganization = "organization"
	EntityTeam         = "team"
	EntityRepository   = "repository"
)

// Sentinel errors for authentication failures. These carry no per-request
// data, so plain sentinels are enough.
var (
	// ErrUnauthenticated means no claims were supplied where claims are
	// required.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidToken means the supplied token failed signature or expiry
	// validation, or was malformed.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrPasswordChangeRequired means the principal must change their
	// password before performing any other privileged action.
	ErrPasswordChangeRequired = errors.New("password change required")
)

// AccessDeniedError means the principal is authenticated but lacks the role
// or relationship the operation requires.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return e.Reason
}

// AccessDenied builds an AccessDeniedError with a formatted reason.
func AccessDenied(format string, args ...interface{}) error {
	return &AccessDeniedError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Entity     string
	Identifier interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %s with identifier %v", e.Entity, e.Identifier)
}

// NotFound builds a NotFoundError for the given entity and identifier.
func NotFound(entity string, identifier interface{}) error {
	return &NotFoundError{Entity: entity, Identifier: identifier}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// NotInRelationshipError means two entities exist but lack the required
// relationship, e.g. a repository that does not belong to the claimed
// organization.
type NotInRelationshipError struct {
	Entity          string
	Identifier      int64
	OtherEntity     string
	OtherIdentifier int64
}

func (e *NotInRelationshipError) Error() string {
	return fmt.Sprintf("%s with identifier %d does not have a %s with identifier %d",
		e.Entity, e.Identifier, e.OtherEntity, e.OtherIdentifier)
}

// NotInRelationship builds a NotInRelationshipError.
func NotInRelationship(entity string, id int64, otherEntity string, otherID int64) error {
	return &NotInRelationshipError{
		Entity:          entity,
		Identifier:      id,
		OtherEntity:     otherEntity,
		OtherIdentifier: otherID,
	}
}

// FieldTakenError means a uniqueness constraint was violated (username,
// email, organization name, canonical repository name). Store-level unique
// index conflicts are translated to this error so callers see one taxonomy
// regardless of whether the pre-check or the constraint caught the conflict.
type FieldTakenError struct {
	Field string
}

func (e *FieldTakenError) Error() string {
	return fmt.Sprintf("%s already taken", e.Field)
}

// FieldTaken builds a FieldTakenError for the given field name.
func FieldTaken(field string) error {
	return &FieldTakenError{Field: field}
}

// IsFieldTaken reports whether err is (or wraps) a FieldTakenError.
func IsFieldTaken(err error) bool {
	var ft *FieldTakenError
	return errors.As(err, &ft)
}

// ValidationError means the input was well-formed JSON but semantically
// invalid (bad role value, same-as-old password, empty name, ...).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
