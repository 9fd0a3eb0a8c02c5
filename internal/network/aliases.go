package network

import (
	"sort"
	"strings"
	"unicode"
)

// AliasEntry maps the raw spellings of one organization onto its
// canonical name.
type AliasEntry struct {
	Canonical string
	Type      EntityType
	Aliases   []string
}

// AliasTable is the immutable lookup used by the normalizer. It is loaded
// once at process start and shared read-only across snapshot builds.
type AliasTable struct {
	lookup map[string]*AliasEntry
	keys   []string
}

// NewAliasTable builds the lookup from a list of entries. Both the
// canonical name and every alias become keys, case-insensitive and
// whitespace-normalized.
func NewAliasTable(entries []AliasEntry) *AliasTable {
	table := &AliasTable{
		lookup: make(map[string]*AliasEntry),
	}
	for i := range entries {
		entry := &entries[i]
		table.add(entry.Canonical, entry)
		for _, alias := range entry.Aliases {
			table.add(alias, entry)
		}
	}
	table.keys = make([]string, 0, len(table.lookup))
	for key := range table.lookup {
		table.keys = append(table.keys, key)
	}
	sort.Strings(table.keys)
	return table
}

func (t *AliasTable) add(name string, entry *AliasEntry) {
	key := NormalizeKey(name)
	if key == "" {
		return
	}
	if _, exists := t.lookup[key]; !exists {
		t.lookup[key] = entry
	}
}

// Exact returns the entry for an already-normalized key.
func (t *AliasTable) Exact(key string) (*AliasEntry, bool) {
	entry, ok := t.lookup[key]
	return entry, ok
}

// Keys returns all lookup keys in sorted order, for deterministic fuzzy
// scans.
func (t *AliasTable) Keys() []string {
	return t.keys
}

// abbreviations expanded during key normalization so that "Univ. of X"
// and "University of X" compare equal.
var abbreviations = map[string]string{
	"univ": "university",
	"inst": "institute",
	"natl": "national",
	"hosp": "hospital",
	"dept": "department",
}

// NormalizeKey converts a raw name into the form used for alias matching:
// lowercase, punctuation stripped (ampersands and hyphens survive, they
// are identity-bearing), common abbreviations expanded, whitespace folded.
func NormalizeKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	for i, word := range words {
		if full, ok := abbreviations[word]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// BuiltinAliasTable returns the curated table of canonical research
// organizations and their known spellings.
func BuiltinAliasTable() *AliasTable {
	return NewAliasTable([]AliasEntry{
		// Universities
		{Canonical: "University of California, San Francisco", Type: EntityTypeInstitution, Aliases: []string{"ucsf", "univ. calif. san fran", "uc san francisco"}},
		{Canonical: "University of California, Los Angeles", Type: EntityTypeInstitution, Aliases: []string{"ucla"}},
		{Canonical: "University of California, San Diego", Type: EntityTypeInstitution, Aliases: []string{"ucsd"}},
		{Canonical: "Harvard University", Type: EntityTypeInstitution, Aliases: []string{"harvard"}},
		{Canonical: "Harvard Medical School", Type: EntityTypeInstitution, Aliases: []string{"harvard medical school (hms and hsdm)"}},
		{Canonical: "Stanford University", Type: EntityTypeInstitution, Aliases: []string{"stanford"}},
		{Canonical: "Yale University", Type: EntityTypeInstitution, Aliases: []string{"yale"}},
		{Canonical: "University of Pennsylvania", Type: EntityTypeInstitution, Aliases: []string{"upenn", "univ. of pennsylvania"}},
		{Canonical: "Columbia University", Type: EntityTypeInstitution, Aliases: []string{"columbia"}},
		{Canonical: "Johns Hopkins University", Type: EntityTypeInstitution},
		{Canonical: "Duke University", Type: EntityTypeInstitution},
		{Canonical: "Northwestern University", Type: EntityTypeInstitution},
		{Canonical: "University of Chicago", Type: EntityTypeInstitution},
		{Canonical: "University of Michigan", Type: EntityTypeInstitution},
		{Canonical: "University of Minnesota", Type: EntityTypeInstitution},
		{Canonical: "Emory University", Type: EntityTypeInstitution},
		{Canonical: "University of Pittsburgh", Type: EntityTypeInstitution},
		{Canonical: "University of Rochester", Type: EntityTypeInstitution},
		{Canonical: "University of Florida", Type: EntityTypeInstitution},
		{Canonical: "University of Utah", Type: EntityTypeInstitution},
		{Canonical: "University of Cincinnati", Type: EntityTypeInstitution},
		{Canonical: "University of Alabama at Birmingham", Type: EntityTypeInstitution},
		{Canonical: "University of Kentucky", Type: EntityTypeInstitution},
		{Canonical: "Washington University School of Medicine", Type: EntityTypeInstitution},
		{Canonical: "Rush University Medical Center", Type: EntityTypeInstitution},
		{Canonical: "Case Western Reserve University", Type: EntityTypeInstitution},
		{Canonical: "Wake Forest University", Type: EntityTypeInstitution},
		{Canonical: "Oregon Health and Science University", Type: EntityTypeInstitution},
		{Canonical: "University of Toronto", Type: EntityTypeInstitution, Aliases: []string{"uoft", "univ. of toronto"}},
		{Canonical: "University of British Columbia", Type: EntityTypeInstitution, Aliases: []string{"ubc"}},
		{Canonical: "McGill University", Type: EntityTypeInstitution},
		{Canonical: "University of Melbourne", Type: EntityTypeInstitution, Aliases: []string{"univ. of melbourne"}},
		{Canonical: "University of Sydney", Type: EntityTypeInstitution, Aliases: []string{"univ. of sydney"}},
		{Canonical: "University College London", Type: EntityTypeInstitution, Aliases: []string{"ucl", "univ. college london"}},
		{Canonical: "Imperial College London", Type: EntityTypeInstitution, Aliases: []string{"imperial", "imperial college"}},
		{Canonical: "University of Oxford", Type: EntityTypeInstitution, Aliases: []string{"oxford university"}},
		{Canonical: "University of Cambridge", Type: EntityTypeInstitution, Aliases: []string{"cambridge university"}},
		{Canonical: "Karolinska Institutet", Type: EntityTypeInstitution, Aliases: []string{"karolinska institute"}},
		{Canonical: "Shanghai Jiao Tong University", Type: EntityTypeInstitution, Aliases: []string{"sjtu"}},
		{Canonical: "Peking University", Type: EntityTypeInstitution, Aliases: []string{"pku", "beijing university"}},
		{Canonical: "Tsinghua University", Type: EntityTypeInstitution, Aliases: []string{"thu", "tsinghua"}},
		{Canonical: "Sun Yat-sen University", Type: EntityTypeInstitution, Aliases: []string{"sysu", "sun yat sen univ"}},
		{Canonical: "Seoul National University", Type: EntityTypeInstitution, Aliases: []string{"snu"}},
		{Canonical: "University of Tokyo", Type: EntityTypeInstitution, Aliases: []string{"utokyo"}},
		{Canonical: "Kyoto University", Type: EntityTypeInstitution, Aliases: []string{"kyoto univ"}},
		{Canonical: "National University of Singapore", Type: EntityTypeInstitution, Aliases: []string{"nus"}},

		// Hospitals and medical centers
		{Canonical: "Massachusetts General Hospital", Type: EntityTypeInstitution, Aliases: []string{"mgh", "mass general hospital"}},
		{Canonical: "Mayo Clinic", Type: EntityTypeInstitution, Aliases: []string{"mayo", "mayo foundation"}},
		{Canonical: "Cleveland Clinic", Type: EntityTypeInstitution, Aliases: []string{"cleveland clinic foundation"}},
		{Canonical: "Fred Hutchinson Cancer Research Center", Type: EntityTypeInstitution, Aliases: []string{"fred hutch"}},
		{Canonical: "Dana-Farber Cancer Institute", Type: EntityTypeInstitution, Aliases: []string{"dana farber"}},
		{Canonical: "Memorial Sloan Kettering Cancer Center", Type: EntityTypeInstitution, Aliases: []string{"mskcc", "sloan kettering"}},
		{Canonical: "Charité - Universitätsmedizin Berlin", Type: EntityTypeInstitution, Aliases: []string{"charite", "charite berlin"}},
		{Canonical: "Beth Israel Deaconess Medical Center", Type: EntityTypeInstitution},
		{Canonical: "Cedars-Sinai Medical Center", Type: EntityTypeInstitution},
		{Canonical: "Ottawa Hospital Research Institute", Type: EntityTypeInstitution},
		{Canonical: "Centre for Addiction and Mental Health", Type: EntityTypeInstitution},

		// Government and research institutes
		{Canonical: "National Institutes of Health (NIH)", Type: EntityTypeSponsor, Aliases: []string{"nih", "u.s. nih", "national institutes of health (nih)"}},
		{Canonical: "National Cancer Institute (NCI)", Type: EntityTypeSponsor, Aliases: []string{"nci", "nih nci", "natl cancer institute"}},
		{Canonical: "National Institute of Neurological Disorders and Stroke (NINDS)", Type: EntityTypeSponsor},
		{Canonical: "National Institute on Aging (NIA)", Type: EntityTypeSponsor},
		{Canonical: "National Institute of Allergy and Infectious Diseases (NIAID)", Type: EntityTypeSponsor},
		{Canonical: "National Center for Advancing Translational Sciences (NCATS)", Type: EntityTypeSponsor},
		{Canonical: "Institut National de la Santé et de la Recherche Médicale", Type: EntityTypeSponsor, Aliases: []string{"inserm"}},
		{Canonical: "Canadian Institutes of Health Research (CIHR)", Type: EntityTypeSponsor},

		// Disease foundations
		{Canonical: "Michael J. Fox Foundation for Parkinson's Research", Type: EntityTypeSponsor},
		{Canonical: "Parkinson's UK", Type: EntityTypeSponsor},
		{Canonical: "Parkinson Society Canada", Type: EntityTypeSponsor},
		{Canonical: "The Parkinson Study Group", Type: EntityTypeSponsor},

		// Pharmaceutical and device companies
		{Canonical: "F. Hoffmann-La Roche AG", Type: EntityTypeSponsor, Aliases: []string{"roche", "hoffmann-la roche", "roche ag"}},
		{Canonical: "Novartis AG", Type: EntityTypeSponsor, Aliases: []string{"novartis", "novartis pharmaceuticals"}},
		{Canonical: "Pfizer Inc.", Type: EntityTypeSponsor, Aliases: []string{"pfizer", "pfizer incorporated"}},
		{Canonical: "GlaxoSmithKline plc", Type: EntityTypeSponsor, Aliases: []string{"gsk", "glaxo", "glaxosmithkline", "glaxo smith kline"}},
		{Canonical: "AstraZeneca plc", Type: EntityTypeSponsor, Aliases: []string{"astrazeneca", "astra zeneca"}},
		{Canonical: "Sanofi", Type: EntityTypeSponsor, Aliases: []string{"sanofi-aventis", "aventis"}},
		{Canonical: "Merck & Co., Inc.", Type: EntityTypeSponsor, Aliases: []string{"merck", "msd", "merck sharp & dohme"}},
		{Canonical: "Johnson & Johnson", Type: EntityTypeSponsor, Aliases: []string{"j&j", "janssen", "janssen pharmaceuticals"}},
		{Canonical: "Eli Lilly and Company", Type: EntityTypeSponsor, Aliases: []string{"lilly", "eli lilly"}},
		{Canonical: "AbbVie Inc.", Type: EntityTypeSponsor, Aliases: []string{"abbvie", "abbott laboratories"}},
		{Canonical: "Bayer AG", Type: EntityTypeSponsor, Aliases: []string{"bayer", "bayer healthcare"}},
		{Canonical: "Amgen Inc.", Type: EntityTypeSponsor, Aliases: []string{"amgen"}},
		{Canonical: "Bristol Myers Squibb", Type: EntityTypeSponsor, Aliases: []string{"bms", "bristol-myers squibb", "bristol myers"}},
		{Canonical: "Genentech, Inc.", Type: EntityTypeSponsor, Aliases: []string{"genentech", "genentech usa"}},
		{Canonical: "Medtronic", Type: EntityTypeSponsor},
		{Canonical: "Boston Scientific Corporation", Type: EntityTypeSponsor},
	})
}
