package network

import (
	"strings"

	"github.com/trialatlas/backend/internal/trials"
	"github.com/trialatlas/backend/internal/util"
)

// Contribution is one sponsor-mediated pairing extracted from a trial.
// Every collaboration runs through the lead sponsor; collaborators and
// officials are never paired with each other directly.
type Contribution struct {
	A     *Entity
	B     *Entity
	Trial trials.Record
}

// Parser turns raw trial records into entity pairings using a shared
// build-scoped normalizer.
type Parser struct {
	normalizer *Normalizer
}

// NewParser wraps a normalizer for record parsing.
func NewParser(normalizer *Normalizer) *Parser {
	return &Parser{normalizer: normalizer}
}

// Parse extracts the contributions of one record. A record without a
// resolvable lead sponsor contributes nothing.
func (p *Parser) Parse(record trials.Record) []Contribution {
	sponsor, ok := p.normalizer.Resolve(record.LeadSponsor, EntityTypeSponsor)
	if !ok {
		return nil
	}
	sponsor.trialIDs[record.NCTID] = true

	var out []Contribution

	for _, name := range splitList(record.Collaborators) {
		collaborator, ok := p.normalizer.Resolve(name, EntityTypeInstitution)
		if !ok || collaborator.ID == sponsor.ID {
			continue
		}
		collaborator.trialIDs[record.NCTID] = true
		out = append(out, Contribution{A: sponsor, B: collaborator, Trial: record})
	}

	for _, official := range parseOfficials(record.Officials) {
		investigator, ok := p.normalizer.Resolve(official.Name, EntityTypeInvestigator)
		if !ok || investigator.ID == sponsor.ID {
			continue
		}
		if investigator.Role == "" {
			investigator.Role = official.Role
		}
		if investigator.Affiliation == "" {
			investigator.Affiliation = official.Affiliation
		}
		investigator.trialIDs[record.NCTID] = true
		out = append(out, Contribution{A: sponsor, B: investigator, Trial: record})
	}

	return out
}

var listSeparators = func(r rune) bool {
	return r == ';' || r == '|' || r == ','
}

// splitList breaks a delimited collaborator field into clean name tokens.
func splitList(field string) []string {
	var out []string
	for _, token := range strings.FieldsFunc(field, listSeparators) {
		token = util.FoldWhitespace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

// official is one parsed entry from the trial officials field, formatted
// "Name|Role|Affiliation" with entries separated by ";".
type official struct {
	Name        string
	Role        string
	Affiliation string
}

func parseOfficials(field string) []official {
	var out []official
	for _, entry := range strings.Split(field, ";") {
		parts := strings.Split(entry, "|")
		name := util.FoldWhitespace(parts[0])
		if name == "" {
			continue
		}
		o := official{Name: util.TitleCase(name)}
		if len(parts) > 1 {
			o.Role = util.FoldWhitespace(parts[1])
		}
		if len(parts) > 2 {
			o.Affiliation = util.FoldWhitespace(parts[2])
		}
		out = append(out, o)
	}
	return out
}
