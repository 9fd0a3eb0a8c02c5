package network

import (
	"sort"
	"strings"
	"time"

	"github.com/trialatlas/backend/internal/trials"
)

// Partner is one ranked collaboration partner of an anchor entity.
type Partner struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         EntityType `json:"type"`
	Weight       float64    `json:"weight"`
	SharedTrials int        `json:"shared_trials"`
	RecentShared int        `json:"recent_shared"`
	TopPhase     string     `json:"top_phase"`
	TopCondition string     `json:"top_condition"`
}

// Partners returns the top-K highest-weight partners of the anchor
// entity. ok is false when the anchor is not present in the snapshot.
func (s *Snapshot) Partners(anchorID string, topK int) ([]Partner, bool) {
	if _, present := s.nodes[anchorID]; !present {
		return nil, false
	}

	recentCutoff := s.now.AddDate(0, -s.cfg.RecentWindowMonths, 0)
	partners := make([]Partner, 0, len(s.incident[anchorID]))

	for _, edgeID := range s.incident[anchorID] {
		edge := s.edges[edgeID]
		partner, present := s.nodes[edge.Other(anchorID)]
		if !present {
			continue
		}

		recent := 0
		for _, trialID := range edge.Meta.TrialIDs {
			record, found := s.trials[trialID]
			if found && record.HasStartDate() && record.StartDate.After(recentCutoff) {
				recent++
			}
		}

		partners = append(partners, Partner{
			ID:           partner.ID,
			Name:         partner.DisplayName,
			Type:         partner.Type,
			Weight:       edge.Weight,
			SharedTrials: len(edge.Meta.TrialIDs),
			RecentShared: recent,
			TopPhase:     s.dominant(edge, func(r trials.Record) string { return r.Phases }),
			TopCondition: s.dominant(edge, func(r trials.Record) string { return r.Conditions }),
		})
	}

	sort.Slice(partners, func(i, j int) bool {
		if partners[i].Weight != partners[j].Weight {
			return partners[i].Weight > partners[j].Weight
		}
		if partners[i].SharedTrials != partners[j].SharedTrials {
			return partners[i].SharedTrials > partners[j].SharedTrials
		}
		return partners[i].ID < partners[j].ID
	})

	if topK > 0 && len(partners) > topK {
		partners = partners[:topK]
	}
	return partners, true
}

// dominant returns the most frequent value of one delimited field across
// an edge's contributing trials. Frequency ties resolve lexicographically.
func (s *Snapshot) dominant(edge *Edge, field func(trials.Record) string) string {
	counts := make(map[string]int)
	for _, trialID := range edge.Meta.TrialIDs {
		record, found := s.trials[trialID]
		if !found {
			continue
		}
		for _, value := range splitList(field(record)) {
			counts[value]++
		}
	}

	best := ""
	bestCount := 0
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value < best) {
			best = value
			bestCount = count
		}
	}
	return best
}

// SearchResult is one entity suggestion for a search query.
type SearchResult struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type EntityType `json:"type"`
}

// Search returns entities whose display name or aliases contain the
// query, prefix matches first. Queries shorter than the configured
// minimum return nothing.
func (s *Snapshot) Search(query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < s.cfg.SearchMinLength {
		return []SearchResult{}
	}

	type match struct {
		node   *Entity
		prefix bool
	}
	var matches []match

	for _, node := range s.Nodes() {
		names := append([]string{node.DisplayName}, node.Aliases...)
		found, prefix := false, false
		for _, name := range names {
			lower := strings.ToLower(name)
			if strings.HasPrefix(lower, query) {
				found, prefix = true, true
				break
			}
			if strings.Contains(lower, query) {
				found = true
			}
		}
		if found {
			matches = append(matches, match{node: node, prefix: prefix})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].node.DisplayName < matches[j].node.DisplayName
	})

	results := make([]SearchResult, 0, s.cfg.SearchMaxResults)
	for _, m := range matches {
		if len(results) == s.cfg.SearchMaxResults {
			break
		}
		results = append(results, SearchResult{ID: m.node.ID, Name: m.node.DisplayName, Type: m.node.Type})
	}
	return results
}

// SharedTrial is one trial two entities collaborated on.
type SharedTrial struct {
	NCTID     string     `json:"nctId"`
	Title     string     `json:"title"`
	Phase     string     `json:"phase"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"startDate"`
}

func trialView(record trials.Record) SharedTrial {
	view := SharedTrial{
		NCTID:  record.NCTID,
		Title:  record.Title,
		Phase:  record.Phases,
		Status: record.Status,
	}
	if record.HasStartDate() {
		start := record.StartDate
		view.StartDate = &start
	}
	return view
}

// sortTrialViews orders most-recent-first with undated trials last; nct
// id breaks ties.
func sortTrialViews(views []SharedTrial) {
	sort.Slice(views, func(i, j int) bool {
		switch {
		case views[i].StartDate == nil && views[j].StartDate == nil:
			return views[i].NCTID < views[j].NCTID
		case views[i].StartDate == nil:
			return false
		case views[j].StartDate == nil:
			return true
		case !views[i].StartDate.Equal(*views[j].StartDate):
			return views[i].StartDate.After(*views[j].StartDate)
		default:
			return views[i].NCTID < views[j].NCTID
		}
	})
}

// PartnerDetail is an entity profile plus its shared-trial history with
// an anchor.
type PartnerDetail struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         EntityType    `json:"type"`
	Aliases      []string      `json:"aliases"`
	Metrics      NodeMetrics   `json:"metrics"`
	SharedTrials []SharedTrial `json:"shared_trials"`
}

// Partner returns the profile of one partner entity and its shared
// trials with the anchor, most recent first. ok is false when either
// entity or the connecting edge is missing.
func (s *Snapshot) Partner(partnerID, anchorID string) (PartnerDetail, bool) {
	partner, present := s.nodes[partnerID]
	if !present {
		return PartnerDetail{}, false
	}
	edge, present := s.edges[EdgeID(partnerID, anchorID)]
	if !present {
		return PartnerDetail{}, false
	}

	shared := make([]SharedTrial, 0, len(edge.Meta.TrialIDs))
	for _, trialID := range edge.Meta.TrialIDs {
		if record, found := s.trials[trialID]; found {
			shared = append(shared, trialView(record))
		}
	}
	sortTrialViews(shared)

	return PartnerDetail{
		ID:           partner.ID,
		Name:         partner.DisplayName,
		Type:         partner.Type,
		Aliases:      partner.Aliases,
		Metrics:      partner.Metrics,
		SharedTrials: shared,
	}, true
}

// SimilarEntity is one neighbor-overlap match.
type SimilarEntity struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Similar ranks other nodes by Jaccard similarity of neighbor sets
// against the given entity. Ties break on higher degree, then id.
func (s *Snapshot) Similar(entityID string, topK int) ([]SimilarEntity, bool) {
	if _, present := s.nodes[entityID]; !present {
		return nil, false
	}
	anchor := s.neighborSet(entityID)

	var out []SimilarEntity
	for _, node := range s.Nodes() {
		if node.ID == entityID {
			continue
		}
		score := jaccard(anchor, s.neighborSet(node.ID))
		if score > 0 {
			out = append(out, SimilarEntity{ID: node.ID, Name: node.DisplayName, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		di, dj := s.nodes[out[i].ID].Metrics.Degree, s.nodes[out[j].ID].Metrics.Degree
		if di != dj {
			return di > dj
		}
		return out[i].ID < out[j].ID
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out, true
}

func (s *Snapshot) neighborSet(id string) map[string]bool {
	neighbors := make(map[string]bool, len(s.incident[id]))
	for _, edgeID := range s.incident[id] {
		neighbors[s.edges[edgeID].Other(id)] = true
	}
	return neighbors
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for id := range a {
		if b[id] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// NewPartnership is an edge whose first collaboration falls inside the
// insight window.
type NewPartnership struct {
	EdgeID    string    `json:"edge_id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Weight    float64   `json:"weight"`
	FirstSeen time.Time `json:"first_seen"`
}

// FrequentPair is an edge ranked by raw shared-trial count.
type FrequentPair struct {
	EdgeID string  `json:"edge_id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Trials int     `json:"trials"`
	Weight float64 `json:"weight"`
}

// EmergingHub is a node whose collaboration rate is accelerating.
type EmergingHub struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RecentEdges int     `json:"recent_edges"`
	PriorEdges  int     `json:"prior_edges"`
	GrowthRatio float64 `json:"growth_ratio"`
}

// Insights bundles the derived snapshot-level lists.
type Insights struct {
	NewPartnerships []NewPartnership `json:"new_partnerships"`
	FrequentPairs   []FrequentPair   `json:"frequent_pairs"`
	EmergingHubs    []EmergingHub    `json:"emerging_hubs"`
}

// Insights derives new-partnership, frequent-pair, and emerging-hub
// lists from the full snapshot. limit caps each list independently.
func (s *Snapshot) Insights(limit int) Insights {
	windowMonths := TimeframeMonths(s.Filters.Timeframe)
	if windowMonths == 0 {
		windowMonths = s.cfg.RecentWindowMonths
	}
	windowStart := s.now.AddDate(0, -windowMonths, 0)
	priorStart := s.now.AddDate(0, -2*windowMonths, 0)

	var fresh []NewPartnership
	pairs := make([]FrequentPair, 0, len(s.edges))
	recentEdges := make(map[string]int)
	priorEdges := make(map[string]int)

	for _, edge := range s.Edges() {
		pairs = append(pairs, FrequentPair{
			EdgeID: edge.ID,
			Source: edge.Source,
			Target: edge.Target,
			Trials: len(edge.Meta.TrialIDs),
			Weight: edge.Weight,
		})

		if edge.Meta.FirstSeen.IsZero() {
			continue
		}
		if edge.Meta.FirstSeen.After(windowStart) {
			fresh = append(fresh, NewPartnership{
				EdgeID:    edge.ID,
				Source:    edge.Source,
				Target:    edge.Target,
				Weight:    edge.Weight,
				FirstSeen: edge.Meta.FirstSeen,
			})
			recentEdges[edge.Source]++
			recentEdges[edge.Target]++
		} else if edge.Meta.FirstSeen.After(priorStart) {
			priorEdges[edge.Source]++
			priorEdges[edge.Target]++
		}
	}

	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].Weight != fresh[j].Weight {
			return fresh[i].Weight > fresh[j].Weight
		}
		return fresh[i].EdgeID < fresh[j].EdgeID
	})
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Trials != pairs[j].Trials {
			return pairs[i].Trials > pairs[j].Trials
		}
		if pairs[i].Weight != pairs[j].Weight {
			return pairs[i].Weight > pairs[j].Weight
		}
		return pairs[i].EdgeID < pairs[j].EdgeID
	})

	var hubs []EmergingHub
	for id, recent := range recentEdges {
		node, present := s.nodes[id]
		if !present {
			continue
		}
		prior := priorEdges[id]
		divisor := prior
		if divisor == 0 {
			divisor = 1
		}
		ratio := float64(recent) / float64(divisor)
		if ratio >= s.cfg.GrowthThreshold {
			hubs = append(hubs, EmergingHub{
				ID:          id,
				Name:        node.DisplayName,
				RecentEdges: recent,
				PriorEdges:  prior,
				GrowthRatio: ratio,
			})
		}
	}
	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].GrowthRatio != hubs[j].GrowthRatio {
			return hubs[i].GrowthRatio > hubs[j].GrowthRatio
		}
		if hubs[i].RecentEdges != hubs[j].RecentEdges {
			return hubs[i].RecentEdges > hubs[j].RecentEdges
		}
		return hubs[i].ID < hubs[j].ID
	})

	if limit > 0 {
		if len(fresh) > limit {
			fresh = fresh[:limit]
		}
		if len(pairs) > limit {
			pairs = pairs[:limit]
		}
		if len(hubs) > limit {
			hubs = hubs[:limit]
		}
	}

	return Insights{NewPartnerships: fresh, FrequentPairs: pairs, EmergingHubs: hubs}
}

// EntityDetail is a standalone entity profile with its strongest
// partners and latest trials.
type EntityDetail struct {
	Entity       *Entity       `json:"entity"`
	TopPartners  []Partner     `json:"top_partners"`
	RecentTrials []SharedTrial `json:"recent_trials"`
}

// Entity returns the profile view for one node. ok is false for unknown
// ids.
func (s *Snapshot) Entity(entityID string) (EntityDetail, bool) {
	node, present := s.nodes[entityID]
	if !present {
		return EntityDetail{}, false
	}
	partners, _ := s.Partners(entityID, 10)

	var recent []SharedTrial
	for trialID := range node.trialIDs {
		if record, found := s.trials[trialID]; found {
			recent = append(recent, trialView(record))
		}
	}
	sortTrialViews(recent)
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return EntityDetail{Entity: node, TopPartners: partners, RecentTrials: recent}, true
}
