package ports

// RequestOutcome summarizes one handled parse request for bookkeeping.
type RequestOutcome struct {
	OK        bool
	ErrorKind string // empty when OK
	Parser    string // backend that ran, empty if none was reached
}

// UsageStats holds the daemon's cumulative request counters.
// Bookkeeping only — counters never influence a response.
type UsageStats struct {
	Requests uint64            `json:"requests"`
	OK       uint64            `json:"ok"`
	Errors   map[string]uint64 `json:"errors,omitempty"`
	Parsers  map[string]uint64 `json:"parsers,omitempty"`
}

// StatsStore persists request counters across daemon restarts.
// The concrete implementation (bbolt) lives in internal/adapters/bbolt.
type StatsStore interface {
	Record(out RequestOutcome) error
	Snapshot() (UsageStats, error)
	Close() error
}
