package types

// Status tracks the lifecycle of a persisted resource and determines
// whether it should be included in queries
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)
