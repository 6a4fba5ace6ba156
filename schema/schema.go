// Package schema defines the shared data structures for eligibility analysis.
package schema

// Custom string types for type safety.
type (
	// Status represents the outcome of a criterion or overall evaluation.
	Status string

	// Trend represents the direction of change between two applications.
	Trend string

	// StatusChange represents how the overall status moved since the prior application.
	StatusChange string

	// ApplicationType distinguishes a first-time application from a renewal.
	ApplicationType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the backend for history storage.
	DatabaseBackend string
)

// All criterion and overall statuses supported.
const (
	ExceedsStatus    Status = "exceeds"
	MeetsStatus      Status = "meets"
	FallsShortStatus Status = "falls_short"
)

// All trends supported.
const (
	UpTrend   Trend = "up"
	DownTrend Trend = "down"
	SameTrend Trend = "same"
)

// All status changes supported.
const (
	ImprovedChange         StatusChange = "improved"
	DeclinedChange         StatusChange = "declined"
	SameChange             StatusChange = "same"
	FirstApplicationChange StatusChange = "first_application"
)

// All application types supported.
const (
	InitialApplication ApplicationType = "initial"
	RenewalApplication ApplicationType = "renewal"
)

// All output modes supported.
const (
	TableOut OutputMode = "table" // default
	CSVOut   OutputMode = "csv"
	JSONOut  OutputMode = "json"
)

// All history backends supported.
const (
	CSVBackend        DatabaseBackend = "csv" // default
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TableOut: {},
	CSVOut:   {},
	JSONOut:  {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	CSVBackend:        {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidStatuses lists all valid statuses, used when decoding stored records.
var ValidStatuses = map[Status]struct{}{
	ExceedsStatus:    {},
	MeetsStatus:      {},
	FallsShortStatus: {},
}

// StatusRank maps a status to its ordinal rank for comparisons between
// applications. Higher is better.
func StatusRank(s Status) int {
	switch s {
	case ExceedsStatus:
		return 2
	case MeetsStatus:
		return 1
	default:
		return 0
	}
}
