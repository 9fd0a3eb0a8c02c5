package network

import (
	"testing"
	"time"

	"github.com/trialatlas/backend/internal/trials"
)

func newTestParser() *Parser {
	return NewParser(newTestNormalizer())
}

func TestParseSponsorMediatedPairs(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	record := trials.Record{
		NCTID:         "NCT00000001",
		LeadSponsor:   "Pfizer Inc.",
		Collaborators: "Massachusetts General Hospital; Mayo Clinic",
		Officials:     "JANE DOE|Principal Investigator|Mayo Clinic",
		StartDate:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	contributions := p.Parse(record)
	if len(contributions) != 3 {
		t.Fatalf("got %d contributions, want 3", len(contributions))
	}
	for _, c := range contributions {
		if c.A.ID != "pfizer-inc" {
			t.Fatalf("pair not sponsor-mediated, got A=%q", c.A.ID)
		}
		if c.B.ID == c.A.ID {
			t.Fatal("self-pair emitted")
		}
	}
}

func TestParseExcludesSelfPairs(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	record := trials.Record{
		NCTID:         "NCT00000002",
		LeadSponsor:   "Pfizer Inc.",
		Collaborators: "Pfizer",
	}

	if got := p.Parse(record); len(got) != 0 {
		t.Fatalf("got %d contributions, want 0", len(got))
	}
}

func TestParseMissingSponsor(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	record := trials.Record{
		NCTID:         "NCT00000003",
		Collaborators: "Mayo Clinic",
		Officials:     "JANE DOE|Principal Investigator|Mayo Clinic",
	}

	if got := p.Parse(record); got != nil {
		t.Fatalf("got %d contributions, want none", len(got))
	}
}

func TestParseOfficialFields(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	record := trials.Record{
		NCTID:       "NCT00000004",
		LeadSponsor: "Novartis",
		Officials:   "JOHN A SMITH|Study Director|Harvard University; MARIA DE SOUZA|Principal Investigator|McGill University",
	}

	contributions := p.Parse(record)
	if len(contributions) != 2 {
		t.Fatalf("got %d contributions, want 2", len(contributions))
	}

	first := contributions[0].B
	if first.DisplayName != "John A Smith" {
		t.Fatalf("got name %q, want %q", first.DisplayName, "John A Smith")
	}
	if first.Type != EntityTypeInvestigator {
		t.Fatalf("got type %q, want %q", first.Type, EntityTypeInvestigator)
	}
	if first.Role != "Study Director" {
		t.Fatalf("got role %q, want %q", first.Role, "Study Director")
	}
	if first.Affiliation != "Harvard University" {
		t.Fatalf("got affiliation %q, want %q", first.Affiliation, "Harvard University")
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "semicolons",
			input: "Mayo Clinic; Cleveland Clinic",
			want:  []string{"Mayo Clinic", "Cleveland Clinic"},
		},
		{
			name:  "pipes_and_commas",
			input: "Harvard|Yale, Stanford",
			want:  []string{"Harvard", "Yale", "Stanford"},
		},
		{
			name:  "empty_tokens_dropped",
			input: " ; ;Mayo Clinic; ",
			want:  []string{"Mayo Clinic"},
		},
		{
			name:  "empty_field",
			input: "",
			want:  nil,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := splitList(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}
