package network

import (
	"errors"
	"testing"
	"time"

	"github.com/trialatlas/backend/internal/trials"
)

func TestServiceRequiresDataset(t *testing.T) {
	t.Parallel()

	service := NewService(DefaultConfig(), BuiltinAliasTable())
	if _, err := service.Snapshot(Filters{Mode: ModeEstablished}); !errors.Is(err, ErrNoDataset) {
		t.Fatalf("got err %v, want ErrNoDataset", err)
	}
}

func TestServiceCachesPerFilterSet(t *testing.T) {
	t.Parallel()

	service := NewService(DefaultConfig(), BuiltinAliasTable())
	service.SetRecords([]trials.Record{
		testRecord("NCT01", "Pfizer Inc.", "Mayo Clinic", daysAgo(30)),
	})

	first, err := service.Snapshot(Filters{Mode: ModeEstablished})
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	second, err := service.Snapshot(Filters{Mode: ModeEstablished})
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if first != second {
		t.Fatal("same filter-set rebuilt instead of hitting the cache")
	}

	other, err := service.Snapshot(Filters{Mode: ModeOnlyRecent, Timeframe: "1y"})
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if other == first {
		t.Fatal("different filter-sets shared a snapshot")
	}
}

func TestServiceInvalidatesOnNewRecords(t *testing.T) {
	t.Parallel()

	service := NewService(DefaultConfig(), BuiltinAliasTable())
	service.SetRecords([]trials.Record{
		testRecord("NCT01", "Pfizer Inc.", "Mayo Clinic", daysAgo(30)),
	})

	before, _ := service.Snapshot(Filters{Mode: ModeEstablished})

	service.SetRecords([]trials.Record{
		testRecord("NCT01", "Pfizer Inc.", "Mayo Clinic", daysAgo(30)),
		testRecord("NCT02", "Pfizer Inc.", "MIT", daysAgo(30)),
	})
	if service.RecordCount() != 2 {
		t.Fatalf("record count = %d, want 2", service.RecordCount())
	}

	after, _ := service.Snapshot(Filters{Mode: ModeEstablished})
	if before == after {
		t.Fatal("cache survived a dataset replacement")
	}
	if after.EdgeCount() != 2 {
		t.Fatalf("got %d edges, want 2 from the new dataset", after.EdgeCount())
	}
}

func TestServiceDiscardsBuildAgainstReplacedDataset(t *testing.T) {
	t.Parallel()

	service := NewService(DefaultConfig(), BuiltinAliasTable())
	service.SetRecords([]trials.Record{
		testRecord("NCT01", "Pfizer Inc.", "Mayo Clinic", daysAgo(30)),
		testRecord("NCT02", "Pfizer Inc.", "MIT", daysAgo(30)),
	})

	// nowFn runs after the build reads the dataset, so swapping records
	// here lands exactly between the read and the cache store.
	replaced := false
	service.nowFn = func() time.Time {
		if !replaced {
			replaced = true
			service.SetRecords([]trials.Record{
				testRecord("NCT03", "Novartis", "Mayo Clinic", daysAgo(30)),
			})
		}
		return testNow
	}

	snapshot, err := service.Snapshot(Filters{Mode: ModeEstablished})
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snapshot.EdgeCount() != 1 {
		t.Fatalf("got %d edges, want 1 from the replacement dataset", snapshot.EdgeCount())
	}
	if _, ok := snapshot.Node("novartis-ag"); !ok {
		t.Fatal("snapshot built from the replaced dataset")
	}

	again, err := service.Snapshot(Filters{Mode: ModeEstablished})
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if again != snapshot {
		t.Fatal("current-generation snapshot was not cached")
	}
}

func TestFiltersKeyCanonical(t *testing.T) {
	t.Parallel()

	a := Filters{
		Timeframe: "1y",
		NodeTypes: []EntityType{EntityTypeSponsor, EntityTypeInstitution},
		Mode:      ModeEstablished,
	}
	b := Filters{
		Timeframe: "1y",
		NodeTypes: []EntityType{EntityTypeInstitution, EntityTypeSponsor},
		Mode:      ModeEstablished,
	}
	if a.Key() != b.Key() {
		t.Fatalf("equivalent filter-sets keyed differently: %q vs %q", a.Key(), b.Key())
	}

	c := Filters{Timeframe: "5y", Mode: ModeEstablished}
	if a.Key() == c.Key() {
		t.Fatal("distinct filter-sets share a key")
	}

	upper := Filters{Timeframe: "1Y", Mode: ModeEstablished}
	lower := Filters{Timeframe: "1y", Mode: ModeEstablished}
	months := Filters{Timeframe: "12m", Mode: ModeEstablished}
	if upper.Key() != lower.Key() || lower.Key() != months.Key() {
		t.Fatalf("equivalent timeframes keyed differently: %q %q %q",
			upper.Key(), lower.Key(), months.Key())
	}
}

func TestTimeframeMonths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty_means_all", input: "", want: 0},
		{name: "all", input: "all", want: 0},
		{name: "one_year", input: "1y", want: 12},
		{name: "five_years", input: "5y", want: 60},
		{name: "six_months", input: "6m", want: 6},
		{name: "garbage_defaults", input: "soon", want: 12},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeframeMonths(tc.input); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}
