// Package orgs implements organization creation and membership management.
//
// Creating an organization also makes the creator its owner and first
// member; the store performs both inserts in one transaction so no reader
// ever sees an organization without its owner as a member. Membership is a
// set: adding an existing member returns the existing edge.
package orgs
