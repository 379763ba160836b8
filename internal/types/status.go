package types

// Status is a type for the lifecycle status of a resource row in the
// database. This is distinct from the business status of an invoice and is
// used to determine if a row should be included in queries.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
