package network

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trialatlas/backend/internal/trials"
)

// EntityType is the closed set of node kinds in the collaboration graph.
type EntityType string

const (
	EntityTypeSponsor      EntityType = "sponsor"
	EntityTypeInstitution  EntityType = "institution"
	EntityTypeInvestigator EntityType = "investigator"
)

// WeightingMode controls how trial recency translates into edge weight.
type WeightingMode string

const (
	// ModeEstablished counts every qualifying trial with base weight 1.0,
	// favoring long-running high-volume partnerships.
	ModeEstablished WeightingMode = "established_network"
	// ModeFresh boosts pairs whose first co-occurrence falls inside the
	// selected timeframe.
	ModeFresh WeightingMode = "fresh_collaborations"
	// ModeOnlyRecent drops contributions outside the selected timeframe
	// entirely.
	ModeOnlyRecent WeightingMode = "only_recent"
)

// ParseWeightingMode maps a query-parameter value onto a known mode,
// defaulting to ModeEstablished.
func ParseWeightingMode(value string) WeightingMode {
	switch WeightingMode(value) {
	case ModeFresh:
		return ModeFresh
	case ModeOnlyRecent:
		return ModeOnlyRecent
	default:
		return ModeEstablished
	}
}

// NodeMetrics carries per-node aggregates computed after the build pass.
type NodeMetrics struct {
	Degree         int     `json:"degree"`
	WeightedDegree float64 `json:"weighted_degree"`
	RecentActivity int     `json:"recent_activity"`
}

// Entity is a canonical participant in clinical research. It exists only
// for the duration of one graph snapshot.
type Entity struct {
	ID            string      `json:"id"`
	Type          EntityType  `json:"type"`
	DisplayName   string      `json:"name"`
	CanonicalName string      `json:"canonical_name"`
	Aliases       []string    `json:"aliases"`
	Role          string      `json:"role,omitempty"`
	Affiliation   string      `json:"affiliation,omitempty"`
	Metrics       NodeMetrics `json:"metrics"`

	trialIDs map[string]bool
}

// EdgeMeta accumulates provenance for a collaboration link.
type EdgeMeta struct {
	TrialIDs   []string  `json:"nct_ids"`
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	Phases     []string  `json:"phases"`
	Conditions []string  `json:"conditions"`
	Countries  []string  `json:"countries"`
}

// Edge is an undirected collaboration link between two entities. Source
// and Target are stored in lexicographic order so the pair key is
// independent of construction order.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight float64  `json:"weight"`
	Meta   EdgeMeta `json:"meta"`
}

// EdgeID returns the canonical order-independent key for a pair of
// entity ids.
func EdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "__" + b
}

// Other returns the partner entity id on the edge relative to id.
func (e *Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Filters selects the record subset and weighting for one snapshot build.
type Filters struct {
	Timeframe       string
	TherapeuticArea string
	Phase           string
	Country         string
	NodeTypes       []EntityType
	Mode            WeightingMode
}

// Key returns the canonical cache key for the filter-set. Node types are
// sorted and the timeframe collapses to its month count so equivalent
// filter-sets ("1Y", "1y", "12m") share a key.
func (f Filters) Key() string {
	types := make([]string, len(f.NodeTypes))
	for i, t := range f.NodeTypes {
		types[i] = string(t)
	}
	sort.Strings(types)

	return strings.Join([]string{
		strconv.Itoa(TimeframeMonths(f.Timeframe)),
		strings.ToLower(f.TherapeuticArea),
		strings.ToLower(f.Phase),
		strings.ToLower(f.Country),
		strings.Join(types, ","),
		string(f.Mode),
	}, "|")
}

// TimeframeMonths converts a timeframe token ("6m", "12m", "1y", "5y",
// "all") into a month count. Zero means no cutoff.
func TimeframeMonths(timeframe string) int {
	tf := strings.ToLower(strings.TrimSpace(timeframe))
	if tf == "" || tf == "all" {
		return 0
	}
	unit := tf[len(tf)-1]
	n, err := strconv.Atoi(tf[:len(tf)-1])
	if err != nil || n <= 0 {
		return 12
	}
	switch unit {
	case 'y':
		return n * 12
	case 'm':
		return n
	default:
		return 12
	}
}

// Config holds the tunable constants of the engine. The defaults mirror
// the reference dashboard's behavior; none of them are hard-coded below
// this struct.
type Config struct {
	// FuzzyThreshold is the minimum Jaro-Winkler similarity for merging a
	// raw name into an existing canonical entity.
	FuzzyThreshold float64
	// DecayRate is the per-month multiplier applied to a trial's edge
	// contribution based on its age.
	DecayRate float64
	// FreshBonus is the extra multiplier applied under ModeFresh when a
	// pair's first collaboration falls inside the selected timeframe.
	FreshBonus float64
	// RecentWindowMonths bounds the "recent" window used for recent-shared
	// counts, node recent activity, and insight queries.
	RecentWindowMonths int
	// GrowthThreshold is the minimum recent/prior degree growth ratio for
	// a node to qualify as an emerging hub.
	GrowthThreshold float64
	// MaxNodes and MaxEdges are the render budget caps per snapshot.
	MaxNodes int
	MaxEdges int
	// SearchMinLength gates entity search; shorter queries return nothing.
	SearchMinLength  int
	SearchMaxResults int
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:     0.93,
		DecayRate:          0.95,
		FreshBonus:         0.5,
		RecentWindowMonths: 12,
		GrowthThreshold:    1.5,
		MaxNodes:           800,
		MaxEdges:           1200,
		SearchMinLength:    2,
		SearchMaxResults:   10,
	}
}

// Snapshot is one fully built graph for a fixed filter-set. It is
// immutable once constructed; all query operations are pure reads, so
// concurrent queries against the same snapshot are safe.
type Snapshot struct {
	ID        string
	Filters   Filters
	BuiltAt   time.Time
	Truncated bool

	cfg      Config
	now      time.Time
	nodes    map[string]*Entity
	edges    map[string]*Edge
	incident map[string][]string
	trials   map[string]trials.Record
}

// Node looks up an entity by id.
func (s *Snapshot) Node(id string) (*Entity, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Edge looks up an edge by its canonical pair key.
func (s *Snapshot) Edge(id string) (*Edge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// Nodes returns all entities sorted by id.
func (s *Snapshot) Nodes() []*Entity {
	out := make([]*Entity, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges sorted by id.
func (s *Snapshot) Edges() []*Edge {
	out := make([]*Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeCount returns the number of materialized nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of materialized edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Trial returns the dataset record behind a trial id, when it survived
// the snapshot's filter-set.
func (s *Snapshot) Trial(nctID string) (trials.Record, bool) {
	t, ok := s.trials[nctID]
	return t, ok
}
