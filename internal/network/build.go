package network

import (
	"math"
	"sort"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/trialatlas/backend/internal/trials"
)

// Build folds a trial record set into one immutable graph snapshot for
// the given filter-set. Every build pass starts from scratch; weights
// are never mutated incrementally across filter-sets.
func Build(records []trials.Record, filters Filters, cfg Config, table *AliasTable, now time.Time) *Snapshot {
	normalizer := NewNormalizer(table, cfg.FuzzyThreshold)
	parser := NewParser(normalizer)

	snapshot := &Snapshot{
		ID:       gonanoid.Must(),
		Filters:  filters,
		BuiltAt:  now,
		cfg:      cfg,
		now:      now,
		nodes:    make(map[string]*Entity),
		edges:    make(map[string]*Edge),
		incident: make(map[string][]string),
		trials:   make(map[string]trials.Record),
	}

	windowMonths := TimeframeMonths(filters.Timeframe)

	firstSeen := make(map[string]time.Time)
	for _, record := range records {
		if !matchesFilters(record, filters) {
			continue
		}
		for _, contribution := range parser.Parse(record) {
			accumulate(snapshot, contribution, filters.Mode, windowMonths, firstSeen)
		}
	}

	// A pair's first co-occurrence predates any contributions only_recent
	// dropped, so partnership age survives the mode's weight exclusion.
	for id, edge := range snapshot.edges {
		if seen, ok := firstSeen[id]; ok && (edge.Meta.FirstSeen.IsZero() || seen.Before(edge.Meta.FirstSeen)) {
			edge.Meta.FirstSeen = seen
		}
	}

	if filters.Mode == ModeFresh {
		applyFreshBonus(snapshot, windowMonths)
	}

	applyNodeTypeFilter(snapshot, filters.NodeTypes)
	trimToBudget(snapshot)
	finalize(snapshot)

	return snapshot
}

// matchesFilters applies the record-level filters. The timeframe is not
// one of them: it parameterizes the weighting modes instead, so an
// established-network view still sees old trials at decayed weight.
func matchesFilters(record trials.Record, filters Filters) bool {
	if filters.TherapeuticArea != "" && !containsFold(record.Conditions, filters.TherapeuticArea) {
		return false
	}
	if filters.Phase != "" && !containsFold(record.Phases, filters.Phase) {
		return false
	}
	if filters.Country != "" && !containsFold(record.Country, filters.Country) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// monthsSince measures trial age in fractional 30-day months, clamped
// at zero for future-dated trials.
func monthsSince(start, now time.Time) float64 {
	months := now.Sub(start).Hours() / 24 / 30
	if months < 0 {
		return 0
	}
	return months
}

func accumulate(s *Snapshot, c Contribution, mode WeightingMode, windowMonths int, firstSeen map[string]time.Time) {
	pairID := EdgeID(c.A.ID, c.B.ID)
	if c.Trial.HasStartDate() {
		if prev, ok := firstSeen[pairID]; !ok || c.Trial.StartDate.Before(prev) {
			firstSeen[pairID] = c.Trial.StartDate
		}
	}

	increment := 1.0
	if c.Trial.HasStartDate() {
		age := monthsSince(c.Trial.StartDate, s.now)
		if mode == ModeOnlyRecent && windowMonths > 0 && age > float64(windowMonths) {
			return
		}
		increment = math.Pow(s.cfg.DecayRate, age)
	} else if mode == ModeOnlyRecent && windowMonths > 0 {
		// Undated trials cannot be placed inside the window.
		return
	}

	edge, ok := s.edges[pairID]
	if !ok {
		source, target := c.A.ID, c.B.ID
		if target < source {
			source, target = target, source
		}
		edge = &Edge{ID: pairID, Source: source, Target: target}
		s.edges[pairID] = edge
	}

	edge.Weight += increment
	mergeMeta(&edge.Meta, c.Trial)

	s.nodes[c.A.ID] = c.A
	s.nodes[c.B.ID] = c.B
	s.trials[c.Trial.NCTID] = c.Trial
}

func mergeMeta(meta *EdgeMeta, record trials.Record) {
	meta.TrialIDs = appendUnique(meta.TrialIDs, record.NCTID)
	for _, phase := range splitList(record.Phases) {
		meta.Phases = appendUnique(meta.Phases, phase)
	}
	for _, condition := range splitList(record.Conditions) {
		meta.Conditions = appendUnique(meta.Conditions, condition)
	}
	if country := strings.TrimSpace(record.Country); country != "" {
		meta.Countries = appendUnique(meta.Countries, country)
	}
	if record.HasStartDate() {
		if meta.FirstSeen.IsZero() || record.StartDate.Before(meta.FirstSeen) {
			meta.FirstSeen = record.StartDate
		}
		if record.StartDate.After(meta.LastSeen) {
			meta.LastSeen = record.StartDate
		}
	}
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// applyFreshBonus upweights edges whose first observed collaboration
// falls inside the selected timeframe.
func applyFreshBonus(s *Snapshot, windowMonths int) {
	if windowMonths <= 0 {
		return
	}
	for _, edge := range s.edges {
		if edge.Meta.FirstSeen.IsZero() {
			continue
		}
		if monthsSince(edge.Meta.FirstSeen, s.now) <= float64(windowMonths) {
			edge.Weight *= 1 + s.cfg.FreshBonus
		}
	}
}

func applyNodeTypeFilter(s *Snapshot, types []EntityType) {
	if len(types) == 0 {
		return
	}
	allowed := make(map[EntityType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	for id, node := range s.nodes {
		if !allowed[node.Type] {
			delete(s.nodes, id)
		}
	}
	for id, edge := range s.edges {
		if _, ok := s.nodes[edge.Source]; !ok {
			delete(s.edges, id)
			continue
		}
		if _, ok := s.nodes[edge.Target]; !ok {
			delete(s.edges, id)
		}
	}
}

// trimToBudget enforces the render caps by dropping lowest-weight edges
// first, then any node left without edges. Ties break on edge id so the
// result is deterministic.
func trimToBudget(s *Snapshot) {
	dropOrphans(s)
	if len(s.edges) <= s.cfg.MaxEdges && len(s.nodes) <= s.cfg.MaxNodes {
		return
	}
	s.Truncated = true

	order := make([]*Edge, 0, len(s.edges))
	for _, edge := range s.edges {
		order = append(order, edge)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].Weight != order[j].Weight {
			return order[i].Weight < order[j].Weight
		}
		return order[i].ID < order[j].ID
	})

	degrees := make(map[string]int, len(s.nodes))
	for _, edge := range s.edges {
		degrees[edge.Source]++
		degrees[edge.Target]++
	}

	for _, edge := range order {
		if len(s.edges) <= s.cfg.MaxEdges && len(s.nodes) <= s.cfg.MaxNodes {
			break
		}
		delete(s.edges, edge.ID)
		for _, id := range []string{edge.Source, edge.Target} {
			degrees[id]--
			if degrees[id] <= 0 {
				delete(s.nodes, id)
			}
		}
	}
}

// dropOrphans removes nodes that no surviving edge touches.
func dropOrphans(s *Snapshot) {
	connected := make(map[string]bool, len(s.nodes))
	for _, edge := range s.edges {
		connected[edge.Source] = true
		connected[edge.Target] = true
	}
	for id := range s.nodes {
		if !connected[id] {
			delete(s.nodes, id)
		}
	}
}

// finalize computes incident lists, node metrics, and sorted edge meta.
func finalize(s *Snapshot) {
	recentCutoff := s.now.AddDate(0, -s.cfg.RecentWindowMonths, 0)

	for _, edge := range s.edges {
		sort.Strings(edge.Meta.TrialIDs)
		sort.Strings(edge.Meta.Phases)
		sort.Strings(edge.Meta.Conditions)
		sort.Strings(edge.Meta.Countries)
		s.incident[edge.Source] = append(s.incident[edge.Source], edge.ID)
		s.incident[edge.Target] = append(s.incident[edge.Target], edge.ID)
	}
	for _, ids := range s.incident {
		sort.Strings(ids)
	}

	for id, node := range s.nodes {
		metrics := NodeMetrics{Degree: len(s.incident[id])}
		for _, edgeID := range s.incident[id] {
			metrics.WeightedDegree += s.edges[edgeID].Weight
		}
		for trialID := range node.trialIDs {
			record, ok := s.trials[trialID]
			if ok && record.HasStartDate() && record.StartDate.After(recentCutoff) {
				metrics.RecentActivity++
			}
		}
		sort.Strings(node.Aliases)
		node.Metrics = metrics
	}
}
