package trials

import (
	"context"
	"time"
)

// Record is one clinical trial as provided by the dataset source. Name
// fields are raw strings; canonicalization happens in the network package.
type Record struct {
	NCTID         string
	Title         string
	LeadSponsor   string
	Collaborators string
	Officials     string
	StartDate     time.Time
	Phases        string
	Conditions    string
	Country       string
	Status        string
}

// HasStartDate reports whether the record carries a parseable start date.
func (r Record) HasStartDate() bool {
	return !r.StartDate.IsZero()
}

// Source provides the trial dataset. Implementations load the full record
// set up front; the network engine never performs I/O mid-build.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}
