package domain

// MigrationTarget identifies the downstream store a migration is rendered for.
type MigrationTarget string

// Available migration targets.
const (
	// TargetPostgreSQL renders ALTER TABLE statements.
	TargetPostgreSQL MigrationTarget = "postgresql"

	// TargetMongoDB renders updateMany set/unset operations.
	TargetMongoDB MigrationTarget = "mongodb"
)

// IsValid returns true if the target is recognised.
func (t MigrationTarget) IsValid() bool {
	switch t {
	case TargetPostgreSQL, TargetMongoDB:
		return true
	default:
		return false
	}
}

// IsRelational reports whether the target is a relational database.
func (t MigrationTarget) IsRelational() bool {
	return t == TargetPostgreSQL
}

// String returns the string representation.
func (t MigrationTarget) String() string {
	return string(t)
}

// Description returns a human-readable description of the target.
func (t MigrationTarget) Description() string {
	switch t {
	case TargetPostgreSQL:
		return "PostgreSQL (relational)"
	case TargetMongoDB:
		return "MongoDB (document)"
	default:
		return unknownDescription
	}
}
