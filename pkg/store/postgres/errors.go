package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/mockerhub/registry/pkg/registry"
)

// uniqueViolation is the PostgreSQL error code for unique-index conflicts.
const uniqueViolation = "23505"

// constraintFields maps unique constraint names from the schema to the
// logical field reported in FieldTakenError.
var constraintFields = map[string]string{
	"idx_users_email_unique":                 "email",
	"idx_users_username_unique":              "username",
	"idx_organizations_name_unique":          "organization name",
	"idx_teams_org_name_unique":              "team name",
	"idx_repositories_canonical_name_unique": "repository name",
}

// translateUnique converts a pq unique-violation into registry.FieldTakenError.
// Any other error is returned unchanged.
func translateUnique(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		if field, ok := constraintFields[pqErr.Constraint]; ok {
			return registry.FieldTaken(field)
		}
		return registry.FieldTaken(pqErr.Constraint)
	}
	return err
}
