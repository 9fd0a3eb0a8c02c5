package network

import (
	"sort"
	"strings"
)

// InvestigatorRanking is one scored investigator across the snapshot.
type InvestigatorRanking struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Role           string        `json:"role,omitempty"`
	Affiliation    string        `json:"affiliation,omitempty"`
	TotalTrials    int           `json:"total_trials"`
	LatePhase      int           `json:"late_phase_trials"`
	ActivityScore  float64       `json:"activity_score"`
	RecentTrials   []SharedTrial `json:"recent_trials"`
	SponsorPartner string        `json:"top_sponsor,omitempty"`
}

// Investigators ranks investigator nodes by trial involvement, weighing
// late-phase work double. Ties break on late-phase count, then name.
func (s *Snapshot) Investigators(limit int) []InvestigatorRanking {
	var out []InvestigatorRanking

	for _, node := range s.Nodes() {
		if node.Type != EntityTypeInvestigator {
			continue
		}

		ranking := InvestigatorRanking{
			ID:          node.ID,
			Name:        node.DisplayName,
			Role:        node.Role,
			Affiliation: node.Affiliation,
		}

		var views []SharedTrial
		for trialID := range node.trialIDs {
			record, found := s.trials[trialID]
			if !found {
				continue
			}
			views = append(views, trialView(record))
			ranking.TotalTrials++
			if isLatePhase(record.Phases) {
				ranking.LatePhase++
			}
		}
		if ranking.TotalTrials == 0 {
			continue
		}
		ranking.ActivityScore = float64(ranking.TotalTrials) + float64(ranking.LatePhase)

		sortTrialViews(views)
		if len(views) > 3 {
			views = views[:3]
		}
		ranking.RecentTrials = views

		if partners, ok := s.Partners(node.ID, 1); ok && len(partners) > 0 {
			ranking.SponsorPartner = partners[0].Name
		}
		out = append(out, ranking)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ActivityScore != out[j].ActivityScore {
			return out[i].ActivityScore > out[j].ActivityScore
		}
		if out[i].LatePhase != out[j].LatePhase {
			return out[i].LatePhase > out[j].LatePhase
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func isLatePhase(phases string) bool {
	lower := strings.ToLower(phases)
	return strings.Contains(lower, "phase 3") || strings.Contains(lower, "phase 4") ||
		strings.Contains(lower, "phase iii") || strings.Contains(lower, "phase iv")
}

// RankedValue is a value with its occurrence count.
type RankedValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SponsorProfile is the aggregate view of one sponsor's trial activity.
type SponsorProfile struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Aliases          []string      `json:"aliases"`
	TotalTrials      int           `json:"total_trials"`
	ActiveTrials     int           `json:"active_trials"`
	TopCollaborators []Partner     `json:"top_collaborators"`
	TopConditions    []RankedValue `json:"top_conditions"`
	TopCountries     []RankedValue `json:"top_countries"`
	RecentTrials     []SharedTrial `json:"recent_trials"`
}

var activeStatuses = map[string]bool{
	"recruiting":              true,
	"active, not recruiting":  true,
	"enrolling by invitation": true,
	"not yet recruiting":      true,
}

// Sponsor aggregates one sponsor's trial portfolio. ok is false when the
// id is unknown or not a sponsor node.
func (s *Snapshot) Sponsor(sponsorID string) (SponsorProfile, bool) {
	node, present := s.nodes[sponsorID]
	if !present || node.Type != EntityTypeSponsor {
		return SponsorProfile{}, false
	}

	profile := SponsorProfile{
		ID:      node.ID,
		Name:    node.DisplayName,
		Aliases: node.Aliases,
	}

	conditionCounts := make(map[string]int)
	countryCounts := make(map[string]int)
	var views []SharedTrial

	for trialID := range node.trialIDs {
		record, found := s.trials[trialID]
		if !found {
			continue
		}
		views = append(views, trialView(record))
		profile.TotalTrials++
		if activeStatuses[strings.ToLower(strings.TrimSpace(record.Status))] {
			profile.ActiveTrials++
		}
		for _, condition := range splitList(record.Conditions) {
			conditionCounts[condition]++
		}
		if country := strings.TrimSpace(record.Country); country != "" {
			countryCounts[country]++
		}
	}

	profile.TopCollaborators, _ = s.Partners(node.ID, 5)
	profile.TopConditions = topRanked(conditionCounts, 5)
	profile.TopCountries = topRanked(countryCounts, 5)

	sortTrialViews(views)
	if len(views) > 5 {
		views = views[:5]
	}
	profile.RecentTrials = views

	return profile, true
}

func topRanked(counts map[string]int, limit int) []RankedValue {
	out := make([]RankedValue, 0, len(counts))
	for value, count := range counts {
		out = append(out, RankedValue{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
