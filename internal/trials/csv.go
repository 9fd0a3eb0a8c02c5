package trials

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/trialatlas/backend/internal/util"
	"github.com/trialatlas/backend/pkg/logger"
)

// FileSource loads trial records from a CSV file on disk.
type FileSource struct {
	Path string
}

func (s *FileSource) Load(ctx context.Context) ([]Record, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trials file: %w", err)
	}
	return ParseRecords(content)
}

// ParseRecords parses CSV content into trial records. The header row maps
// columns by name, so column order in the export does not matter. Rows
// missing an nctId are dropped; unparseable start dates leave the record
// with a zero date rather than dropping it.
func ParseRecords(content []byte) ([]Record, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(util.FoldWhitespace(name))] = i
	}
	if _, ok := index["nctid"]; !ok {
		return nil, fmt.Errorf("CSV is missing the nctId column")
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return util.FoldWhitespace(row[i])
	}

	var records []Record
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec := Record{
			NCTID:         field(row, "nctid"),
			Title:         field(row, "brieftitle"),
			LeadSponsor:   field(row, "leadsponsor"),
			Collaborators: field(row, "collaborators"),
			Officials:     field(row, "officials"),
			Phases:        field(row, "phases"),
			Conditions:    field(row, "conditions"),
			Country:       field(row, "country"),
			Status:        field(row, "overallstatus"),
		}
		if rec.NCTID == "" {
			skipped++
			continue
		}

		if raw := field(row, "startdate"); raw != "" {
			if parsed, err := dateparse.ParseAny(raw); err == nil {
				rec.StartDate = parsed
			}
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV contains no usable trial rows")
	}
	if skipped > 0 {
		logger.Debug("[Trials] Skipped malformed CSV rows", "count", skipped)
	}

	return records, nil
}
