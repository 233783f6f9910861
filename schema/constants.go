package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// Signal represents the collaboration signal a graph was built from.
	Signal string

	// GraphFormat represents the file format used for graph exports.
	GraphFormat string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All collaboration signals supported.
const (
	CommitSignal  Signal = "commit"
	PRSignal      Signal = "pr"
	IssueSignal   Signal = "issue"
	IssuePRSignal Signal = "issue_pr"
	CoreDevSignal Signal = "core_dev"
)

// All graph export formats supported.
const (
	DOTFormat     GraphFormat = "dot" // default
	GraphMLFormat GraphFormat = "graphml"
)

// AllSignals lists the signals in the order they are reported.
var AllSignals = []Signal{CommitSignal, PRSignal, IssueSignal, IssuePRSignal, CoreDevSignal}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidGraphFormats lists all valid graph export formats.
var ValidGraphFormats = map[GraphFormat]struct{}{
	DOTFormat:     {},
	GraphMLFormat: {},
}

// MetricPrefix returns the key prefix used for per-signal metric rows.
func (s Signal) MetricPrefix() string {
	switch s {
	case CommitSignal:
		return "commitCentrality"
	case PRSignal:
		return "prCentrality"
	case IssueSignal:
		return "issueCentrality"
	case IssuePRSignal:
		return "issuesAndPRsCentrality"
	case CoreDevSignal:
		return "coreDevCentrality"
	default:
		return string(s) + "Centrality"
	}
}
