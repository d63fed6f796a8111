package cv

import (
	"bufio"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

//go:embed data/stopwords_en.txt
var stopwordsEN string

// Reference holds the lookup tables shared by all extractions.
// It is loaded once at startup and never mutated afterwards.
type Reference struct {
	Skills    []string
	JobRoles  []string
	Places    *Gazetteer
	Stopwords map[string]struct{}
}

// LoadReference reads the skills, job-role and location tables and the
// built-in English stopwords.
func LoadReference(skillsPath, jobRolesPath, locationsPath string) (*Reference, error) {
	skills, err := LoadLabels(skillsPath)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	roles, err := LoadLabels(jobRolesPath)
	if err != nil {
		return nil, fmt.Errorf("load job roles: %w", err)
	}
	places, err := LoadLabels(locationsPath)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	return NewReference(skills, roles, places), nil
}

func NewReference(skills, jobRoles, places []string) *Reference {
	return &Reference{
		Skills:    skills,
		JobRoles:  jobRoles,
		Places:    NewGazetteer(places),
		Stopwords: EnglishStopwords(),
	}
}

// Gazetteer finds known place names in text as whole words, ignoring case.
type Gazetteer struct {
	pattern   *regexp.Regexp
	canonical map[string]string
}

func NewGazetteer(places []string) *Gazetteer {
	g := &Gazetteer{canonical: make(map[string]string, len(places))}
	alts := make([]string, 0, len(places))
	for _, p := range places {
		key := strings.ToLower(p)
		if _, dup := g.canonical[key]; dup || key == "" {
			continue
		}
		g.canonical[key] = p
		alts = append(alts, regexp.QuoteMeta(p))
	}
	if len(alts) == 0 {
		return g
	}
	// longest first so "New York City" wins over "New York" at the same position
	sort.SliceStable(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })
	g.pattern = regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
	return g
}

// Len is the number of distinct places.
func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	return len(g.canonical)
}

// Find returns the earliest known place in text, spelled as in the table.
func (g *Gazetteer) Find(text string) string {
	if g == nil || g.pattern == nil {
		return ""
	}
	m := g.pattern.FindString(text)
	if m == "" {
		return ""
	}
	return g.canonical[strings.ToLower(m)]
}

// EnglishStopwords returns a fresh set of lowercase English stopwords.
func EnglishStopwords() map[string]struct{} {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(stopwordsEN))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// LoadLabels reads the header row of a .csv or .xlsx table; each column name is one label.
func LoadLabels(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSVHeader(f)
	case ".xlsx":
		return readXLSXHeader(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func readCSVHeader(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return cleanLabels(header), nil
}

func readXLSXHeader(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []string{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return cleanLabels(rows[0]), nil
}

func cleanLabels(raw []string) []string {
	labels := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(strings.TrimPrefix(l, "\ufeff"))
		if l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}
