// Package taxonomy keeps category names stable across report years. Raw
// report labels are mapped to canonical category keys through a
// hand-maintained alias table keyed by (report kind, label, effective year
// range). The table is data, not code, so category drift stays auditable
// and diffable; a label with no alias is a hard error, never a guess.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

//go:embed aliases.yaml
var defaultAliases []byte

// Alias maps one raw label to its canonical category key, optionally
// limited to a range of calendar years. Renames across report vintages are
// expressed as two aliases with disjoint year ranges.
type Alias struct {
	Label     string `yaml:"label"`
	Canonical string `yaml:"canonical"`
	FirstYear int    `yaml:"first_year,omitempty"`
	LastYear  int    `yaml:"last_year,omitempty"`
}

// ranged reports whether the alias is limited to specific years.
func (a Alias) ranged() bool { return a.FirstYear != 0 || a.LastYear != 0 }

// covers reports whether the alias applies in the given calendar year.
func (a Alias) covers(year int) bool {
	if a.FirstYear != 0 && year < a.FirstYear {
		return false
	}
	if a.LastYear != 0 && year > a.LastYear {
		return false
	}
	return true
}

// UnknownCategoryError means a parsed label has no alias for its report
// kind and year. Fatal by design: silent misclassification would corrupt
// historical continuity. Fixing it means extending the alias table.
type UnknownCategoryError struct {
	Kind  report.Kind
	Label string
	Year  int
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("no taxonomy alias for %s label %q in %d",
		e.Kind, e.Label, e.Year)
}

// aliasFile is the on-disk table shape.
type aliasFile struct {
	Aliases map[report.Kind][]Alias `yaml:"aliases"`
}

// Normalizer resolves raw labels to canonical categories. Read-only at
// parse time.
type Normalizer struct {
	byKind map[report.Kind]map[string][]Alias
}

// Load reads an alias table from YAML.
func Load(data []byte) (*Normalizer, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing alias table: %w", err)
	}

	n := &Normalizer{byKind: make(map[report.Kind]map[string][]Alias)}
	for kind, aliases := range f.Aliases {
		m := make(map[string][]Alias)
		for _, a := range aliases {
			if a.Label == "" || a.Canonical == "" {
				return nil, fmt.Errorf("alias table: %s entry missing label or canonical", kind)
			}
			key := foldLabel(a.Label)
			m[key] = append(m[key], a)
		}
		n.byKind[kind] = m
	}
	return n, nil
}

// LoadFile reads an alias table from a YAML file.
func LoadFile(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alias table %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the normalizer built from the embedded alias table.
func Default() *Normalizer {
	n, err := Load(defaultAliases)
	if err != nil {
		// The embedded table ships with the binary; failing to parse it
		// is a build defect, not a runtime condition.
		panic(err)
	}
	return n
}

// Normalize maps a raw report label to its canonical category for the
// given calendar year. Matching is deterministic: the most specific alias
// wins (year-ranged over open), and two applicable aliases with different
// canonicals are an error rather than a coin flip.
func (n *Normalizer) Normalize(kind report.Kind, rawLabel string, calendarYear int) (string, error) {
	candidates := n.byKind[kind][foldLabel(rawLabel)]

	var ranged, open []Alias
	for _, a := range candidates {
		if !a.covers(calendarYear) {
			continue
		}
		if a.ranged() {
			ranged = append(ranged, a)
		} else {
			open = append(open, a)
		}
	}

	best := ranged
	if len(best) == 0 {
		best = open
	}
	if len(best) == 0 {
		return "", &UnknownCategoryError{Kind: kind, Label: strings.TrimSpace(rawLabel), Year: calendarYear}
	}
	canonical := best[0].Canonical
	for _, a := range best[1:] {
		if a.Canonical != canonical {
			return "", fmt.Errorf("ambiguous taxonomy aliases for %s label %q in %d: %q vs %q",
				kind, rawLabel, calendarYear, canonical, a.Canonical)
		}
	}
	return canonical, nil
}

var (
	footnoteMarks = regexp.MustCompile(`[*†]+$`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// foldLabel canonicalizes a label for lookup: trimmed, footnote markers
// stripped, whitespace collapsed, case-folded.
func foldLabel(label string) string {
	s := strings.TrimSpace(label)
	s = footnoteMarks.ReplaceAllString(s, "")
	s = strings.TrimRight(s, " .:")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.ToUpper(s)
}
