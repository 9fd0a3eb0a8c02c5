package network

import (
	"sort"

	"github.com/xrash/smetrics"

	"github.com/trialatlas/backend/internal/util"
)

// jaroWinkler parameters; standard boost threshold and prefix size.
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4
)

// Normalizer maps raw name strings onto canonical entities. The alias
// table is shared and read-only; the minted-entity state is scoped to a
// single build pass, so two raw spellings seen in the same pass resolve
// to the same entity regardless of order.
type Normalizer struct {
	table     *AliasTable
	threshold float64

	entities map[string]*Entity
	byKey    map[string]*Entity
	minted   []string
}

// NewNormalizer creates a build-scoped normalizer over the given alias
// table. threshold is the minimum Jaro-Winkler similarity for a fuzzy
// merge.
func NewNormalizer(table *AliasTable, threshold float64) *Normalizer {
	return &Normalizer{
		table:     table,
		threshold: threshold,
		entities:  make(map[string]*Entity),
		byKey:     make(map[string]*Entity),
	}
}

// Resolve maps a raw name to its canonical entity, minting a new one if
// neither the alias table nor any previously seen name matches. Empty or
// unparseable input yields ok=false.
func (n *Normalizer) Resolve(raw string, hint EntityType) (*Entity, bool) {
	display := util.FoldWhitespace(raw)
	key := NormalizeKey(display)
	if key == "" {
		return nil, false
	}

	if entity, ok := n.byKey[key]; ok {
		entity.addAlias(display)
		return entity, true
	}

	if entry, ok := n.table.Exact(key); ok {
		entity := n.entityForEntry(entry, hint)
		n.byKey[key] = entity
		entity.addAlias(display)
		return entity, true
	}

	if entity, ok := n.fuzzyMatch(key); ok {
		n.byKey[key] = entity
		entity.addAlias(display)
		return entity, true
	}

	entity := &Entity{
		ID:            util.Slugify(key),
		Type:          hint,
		DisplayName:   display,
		CanonicalName: key,
		trialIDs:      make(map[string]bool),
	}
	entity.addAlias(display)
	n.entities[entity.ID] = entity
	n.byKey[key] = entity
	n.minted = append(n.minted, key)
	sort.Strings(n.minted)
	return entity, true
}

// Entities returns every entity resolved during this pass.
func (n *Normalizer) Entities() map[string]*Entity {
	return n.entities
}

func (n *Normalizer) entityForEntry(entry *AliasEntry, hint EntityType) *Entity {
	id := util.Slugify(NormalizeKey(entry.Canonical))
	if entity, ok := n.entities[id]; ok {
		return entity
	}

	entityType := entry.Type
	if entityType == "" {
		entityType = hint
	}
	entity := &Entity{
		ID:            id,
		Type:          entityType,
		DisplayName:   entry.Canonical,
		CanonicalName: NormalizeKey(entry.Canonical),
		trialIDs:      make(map[string]bool),
	}
	n.entities[id] = entity
	return entity
}

// fuzzyMatch scans the alias table keys and the canonical keys minted in
// this pass. Both lists are sorted, so the best match is deterministic
// for equal scores.
func (n *Normalizer) fuzzyMatch(key string) (*Entity, bool) {
	bestScore := 0.0
	bestKey := ""

	scan := func(candidates []string) {
		for _, candidate := range candidates {
			score := smetrics.JaroWinkler(key, candidate, jwBoostThreshold, jwPrefixSize)
			if score >= n.threshold && score > bestScore {
				bestScore = score
				bestKey = candidate
			}
		}
	}
	scan(n.table.Keys())
	scan(n.minted)

	if bestKey == "" {
		return nil, false
	}

	if entity, ok := n.byKey[bestKey]; ok {
		return entity, true
	}
	if entry, ok := n.table.Exact(bestKey); ok {
		entity := n.entityForEntry(entry, "")
		n.byKey[bestKey] = entity
		return entity, true
	}
	return nil, false
}

func (e *Entity) addAlias(alias string) {
	for _, existing := range e.Aliases {
		if existing == alias {
			return
		}
	}
	e.Aliases = append(e.Aliases, alias)
}
