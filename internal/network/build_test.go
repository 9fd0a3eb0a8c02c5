package network

import (
	"math"
	"testing"
	"time"

	"github.com/trialatlas/backend/internal/trials"
)

var testNow = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

// daysAgo keeps test ages exact multiples of the 30-day month used by
// the decay formula.
func daysAgo(days int) time.Time {
	return testNow.AddDate(0, 0, -days)
}

func testRecord(nctID, sponsor, collaborator string, start time.Time) trials.Record {
	return trials.Record{
		NCTID:         nctID,
		Title:         "Trial " + nctID,
		LeadSponsor:   sponsor,
		Collaborators: collaborator,
		StartDate:     start,
		Phases:        "Phase 2",
		Conditions:    "Parkinson Disease",
		Country:       "United States",
		Status:        "Recruiting",
	}
}

func buildTest(records []trials.Record, filters Filters, cfg Config) *Snapshot {
	return Build(records, filters, cfg, BuiltinAliasTable(), testNow)
}

func TestBuildWeightDecay(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	fresh := buildTest([]trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(0)),
	}, Filters{Mode: ModeEstablished}, cfg)
	aged := buildTest([]trials.Record{
		testRecord("NCT2", "Pfizer Inc.", "Mayo Clinic", daysAgo(360)),
	}, Filters{Mode: ModeEstablished}, cfg)

	freshEdge, ok := fresh.Edge(EdgeID("pfizer-inc", "mayo-clinic"))
	if !ok {
		t.Fatal("fresh edge missing")
	}
	agedEdge, ok := aged.Edge(EdgeID("pfizer-inc", "mayo-clinic"))
	if !ok {
		t.Fatal("aged edge missing")
	}

	if math.Abs(freshEdge.Weight-1.0) > 1e-9 {
		t.Fatalf("fresh weight = %v, want 1.0", freshEdge.Weight)
	}
	want := math.Pow(0.95, 12)
	if math.Abs(agedEdge.Weight-want) > 1e-9 {
		t.Fatalf("aged weight = %v, want %v", agedEdge.Weight, want)
	}
}

func TestBuildWeightMonotonicity(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	one := buildTest([]trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(300)),
	}, Filters{Mode: ModeEstablished}, cfg)
	two := buildTest([]trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(300)),
		testRecord("NCT2", "Pfizer Inc.", "Mayo Clinic", daysAgo(600)),
	}, Filters{Mode: ModeEstablished}, cfg)

	first, _ := one.Edge(EdgeID("pfizer-inc", "mayo-clinic"))
	second, _ := two.Edge(EdgeID("pfizer-inc", "mayo-clinic"))
	if second.Weight <= first.Weight {
		t.Fatalf("weight %v did not grow past %v with an extra trial", second.Weight, first.Weight)
	}
}

func TestBuildOnlyRecentExclusion(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	snapshot := buildTest([]trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(730)),
	}, Filters{Timeframe: "1y", Mode: ModeOnlyRecent}, cfg)

	if snapshot.EdgeCount() != 0 {
		t.Fatalf("got %d edges, want 0 for a two-year-old trial", snapshot.EdgeCount())
	}

	snapshot = buildTest([]trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(730)),
		testRecord("NCT2", "Pfizer Inc.", "Mayo Clinic", daysAgo(30)),
	}, Filters{Timeframe: "1y", Mode: ModeOnlyRecent}, cfg)

	edge, ok := snapshot.Edge(EdgeID("pfizer-inc", "mayo-clinic"))
	if !ok {
		t.Fatal("recent edge missing")
	}
	want := math.Pow(0.95, 1)
	if math.Abs(edge.Weight-want) > 1e-9 {
		t.Fatalf("weight = %v, want only the recent contribution %v", edge.Weight, want)
	}
	if len(edge.Meta.TrialIDs) != 1 || edge.Meta.TrialIDs[0] != "NCT2" {
		t.Fatalf("meta trials = %v, want only NCT2", edge.Meta.TrialIDs)
	}
	if !edge.Meta.FirstSeen.Equal(daysAgo(730)) {
		t.Fatalf("first seen = %v, want the pair's true first co-occurrence %v",
			edge.Meta.FirstSeen, daysAgo(730))
	}
}

func TestBuildFreshBonus(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	records := []trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(60)),
		testRecord("NCT2", "Novartis", "Mayo Clinic", daysAgo(900)),
	}

	base := buildTest(records, Filters{Timeframe: "1y", Mode: ModeEstablished}, cfg)
	boosted := buildTest(records, Filters{Timeframe: "1y", Mode: ModeFresh}, cfg)

	newPair := EdgeID("pfizer-inc", "mayo-clinic")
	oldPair := EdgeID("novartis-ag", "mayo-clinic")

	baseNew, _ := base.Edge(newPair)
	boostedNew, _ := boosted.Edge(newPair)
	want := baseNew.Weight * (1 + cfg.FreshBonus)
	if math.Abs(boostedNew.Weight-want) > 1e-9 {
		t.Fatalf("fresh pair weight = %v, want %v", boostedNew.Weight, want)
	}

	baseOld, _ := base.Edge(oldPair)
	boostedOld, _ := boosted.Edge(oldPair)
	if math.Abs(boostedOld.Weight-baseOld.Weight) > 1e-9 {
		t.Fatalf("old pair weight changed from %v to %v, want no bonus", baseOld.Weight, boostedOld.Weight)
	}
}

func TestBuildSymmetricEdgeIdentity(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	snapshot := buildTest([]trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(30)),
		testRecord("NCT2", "Mayo Clinic", "Pfizer Inc.", daysAgo(30)),
	}, Filters{Mode: ModeEstablished}, cfg)

	if snapshot.EdgeCount() != 1 {
		t.Fatalf("got %d edges, want 1 regardless of pair order", snapshot.EdgeCount())
	}
	edge := snapshot.Edges()[0]
	if edge.ID != EdgeID("mayo-clinic", "pfizer-inc") {
		t.Fatalf("edge id = %q, want canonical pair key", edge.ID)
	}
	if edge.Source > edge.Target {
		t.Fatalf("source %q sorts after target %q", edge.Source, edge.Target)
	}
	if len(edge.Meta.TrialIDs) != 2 {
		t.Fatalf("meta trials = %v, want both trials on one edge", edge.Meta.TrialIDs)
	}
}

func TestBuildSelfLoopScenario(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	snapshot := buildTest([]trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Pfizer", daysAgo(390)),
		testRecord("NCT2", "Pfizer", "MIT", daysAgo(30)),
	}, Filters{Mode: ModeEstablished}, cfg)

	partners, ok := snapshot.Partners("pfizer-inc", 5)
	if !ok {
		t.Fatal("anchor not found")
	}
	if len(partners) != 1 {
		t.Fatalf("got %d partners, want exactly 1", len(partners))
	}
	if partners[0].Name != "MIT" {
		t.Fatalf("partner = %q, want MIT", partners[0].Name)
	}
	want := math.Pow(0.95, 1)
	if math.Abs(partners[0].Weight-want) > 1e-9 {
		t.Fatalf("weight = %v, want %v", partners[0].Weight, want)
	}
}

func TestBuildNodeTypeFilter(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	records := []trials.Record{
		testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(30)),
	}

	all := buildTest(records, Filters{Mode: ModeEstablished}, cfg)
	if all.NodeCount() != 2 {
		t.Fatalf("got %d nodes, want 2", all.NodeCount())
	}

	sponsorsOnly := buildTest(records, Filters{
		Mode:      ModeEstablished,
		NodeTypes: []EntityType{EntityTypeSponsor},
	}, cfg)
	if sponsorsOnly.EdgeCount() != 0 {
		t.Fatalf("got %d edges, want 0 once the institution is filtered", sponsorsOnly.EdgeCount())
	}
	if sponsorsOnly.NodeCount() != 0 {
		t.Fatalf("got %d nodes, want 0 after orphan drop", sponsorsOnly.NodeCount())
	}
}

func TestBuildTruncation(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MaxEdges = 5

	var records []trials.Record
	collaborators := []string{
		"Alpha Biotech", "Bravo Genomics", "Gamma Biotech", "Delta Oncology",
		"Epsilon Labs", "Omega Labs", "Sigma Labs", "Kappa Labs",
		"Quartz Research Group", "Horizon Pharma",
	}
	for i, collaborator := range collaborators {
		records = append(records, testRecord(
			"NCT"+collaborator, "Pfizer Inc.", collaborator, daysAgo(30*(i+1)),
		))
	}

	snapshot := buildTest(records, Filters{Mode: ModeEstablished}, cfg)

	if !snapshot.Truncated {
		t.Fatal("truncation flag not set")
	}
	if snapshot.EdgeCount() > cfg.MaxEdges {
		t.Fatalf("got %d edges, want at most %d", snapshot.EdgeCount(), cfg.MaxEdges)
	}

	// The surviving edges must be the highest-weight ones, the most
	// recent collaborations here.
	for _, kept := range []string{"alpha-biotech", "bravo-genomics", "gamma-biotech", "delta-oncology", "epsilon-labs"} {
		if _, ok := snapshot.Edge(EdgeID("pfizer-inc", kept)); !ok {
			t.Fatalf("high-weight edge to %q was trimmed", kept)
		}
	}
	if _, ok := snapshot.Node("horizon-pharma"); ok {
		t.Fatal("orphaned node survived trimming")
	}
}

func TestBuildUndatedTrials(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	record := testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", time.Time{})

	established := buildTest([]trials.Record{record}, Filters{Mode: ModeEstablished}, cfg)
	edge, ok := established.Edge(EdgeID("pfizer-inc", "mayo-clinic"))
	if !ok {
		t.Fatal("undated trial contributed no edge")
	}
	if math.Abs(edge.Weight-1.0) > 1e-9 {
		t.Fatalf("weight = %v, want undecayed 1.0", edge.Weight)
	}

	onlyRecent := buildTest([]trials.Record{record}, Filters{Timeframe: "1y", Mode: ModeOnlyRecent}, cfg)
	if onlyRecent.EdgeCount() != 0 {
		t.Fatal("undated trial counted as recent")
	}
}

func TestBuildRecordFilters(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	oncology := testRecord("NCT1", "Pfizer Inc.", "Mayo Clinic", daysAgo(30))
	oncology.Conditions = "Breast Cancer"
	oncology.Phases = "Phase 3"
	oncology.Country = "Germany"
	neuro := testRecord("NCT2", "Novartis", "Mayo Clinic", daysAgo(30))

	tests := []struct {
		name      string
		filters   Filters
		wantEdges int
	}{
		{
			name:      "area_match",
			filters:   Filters{TherapeuticArea: "cancer", Mode: ModeEstablished},
			wantEdges: 1,
		},
		{
			name:      "phase_match",
			filters:   Filters{Phase: "Phase 3", Mode: ModeEstablished},
			wantEdges: 1,
		},
		{
			name:      "country_match",
			filters:   Filters{Country: "germany", Mode: ModeEstablished},
			wantEdges: 1,
		},
		{
			name:      "no_filter",
			filters:   Filters{Mode: ModeEstablished},
			wantEdges: 2,
		},
		{
			name:      "no_match",
			filters:   Filters{TherapeuticArea: "diabetes", Mode: ModeEstablished},
			wantEdges: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			snapshot := buildTest([]trials.Record{oncology, neuro}, tc.filters, cfg)
			if snapshot.EdgeCount() != tc.wantEdges {
				t.Fatalf("got %d edges, want %d", snapshot.EdgeCount(), tc.wantEdges)
			}
		})
	}
}
