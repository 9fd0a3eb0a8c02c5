package trials

import (
	"strings"
	"testing"
	"time"
)

func TestParseRecords(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		`nctId,briefTitle,leadSponsor,collaborators,officials,startDate,phases,conditions,country,overallStatus`,
		`NCT001,Levodopa Trial,Pfizer Inc.,Mayo Clinic; MIT,JANE DOE|Principal Investigator|Mayo Clinic,2025-03-01,Phase 2,Parkinson Disease,United States,Recruiting`,
		`NCT002,Untitled,Novartis,,,not a date,,,,"Completed"`,
		`,Missing Id,Orphan Sponsor,,,,,,,`,
	}, "\n")

	records, err := ParseRecords([]byte(content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.NCTID != "NCT001" || first.LeadSponsor != "Pfizer Inc." {
		t.Fatalf("unexpected first record: %+v", first)
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !first.StartDate.Equal(want) {
		t.Fatalf("start date = %v, want %v", first.StartDate, want)
	}
	if !first.HasStartDate() {
		t.Fatal("dated record reports no start date")
	}

	second := records[1]
	if second.HasStartDate() {
		t.Fatalf("unparseable date produced %v, want zero date", second.StartDate)
	}
	if second.Status != "Completed" {
		t.Fatalf("status = %q, want Completed", second.Status)
	}
}

func TestParseRecordsColumnOrder(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		`leadSponsor,nctId,startDate`,
		`Pfizer Inc.,NCT001,2024-06-15`,
	}, "\n")

	records, err := ParseRecords([]byte(content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if records[0].NCTID != "NCT001" || records[0].LeadSponsor != "Pfizer Inc." {
		t.Fatalf("column mapping broken: %+v", records[0])
	}
}

func TestParseRecordsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing_nctid_column",
			content: "leadSponsor,startDate\nPfizer Inc.,2024-06-15",
		},
		{
			name:    "no_usable_rows",
			content: "nctId,leadSponsor\n,Orphan Sponsor",
		},
		{
			name:    "empty_input",
			content: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRecords([]byte(tc.content)); err == nil {
				t.Fatal("got nil error, want failure")
			}
		})
	}
}
