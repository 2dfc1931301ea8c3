// Package filter narrows protein records by cascading taxonomic selections
// and a free-text search token. Every function is pure.
package filter

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"cuticulome/internal/store"
)

// All is the "no selection" value for a level.
const All = "All"

// SearchParam is the query key carrying the search token.
const SearchParam = "q"

// Level is one taxonomic rank, ordered from broadest to narrowest.
type Level int

const (
	Subphylum Level = iota
	Class
	Order
	Family
	Genus
	Species
	numLevels
)

// Levels lists every level in cascade order.
var Levels = []Level{Subphylum, Class, Order, Family, Genus, Species}

var levelNames = [numLevels]string{"subphylum", "class", "order", "family", "genus", "species"}

func (l Level) String() string {
	if l < 0 || l >= numLevels {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel maps a query key to its level.
func ParseLevel(name string) (Level, bool) {
	for i, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(i), true
		}
	}
	return 0, false
}

func (l Level) value(r store.ProteinRecord) string {
	switch l {
	case Subphylum:
		return r.Subphylum
	case Class:
		return r.Class
	case Order:
		return r.Order
	case Family:
		return r.Family
	case Genus:
		return r.Genus
	case Species:
		return r.Species
	}
	return ""
}

// State is a selection path plus an optional search token.
// The zero value is not valid; use NewState.
type State struct {
	selection [numLevels]string
	Search    string
}

// NewState returns a state with every level set to All.
func NewState() State {
	var s State
	for i := range s.selection {
		s.selection[i] = All
	}
	return s
}

// Get returns the selection at level l.
func (s State) Get(l Level) string {
	return s.selection[l]
}

// FromQuery reads level selections and the search token from query values.
// Missing or empty levels are All. The result is not normalized.
func FromQuery(values url.Values) State {
	s := NewState()
	for _, l := range Levels {
		if v := values.Get(l.String()); v != "" {
			s.selection[l] = v
		}
	}
	s.Search = values.Get(SearchParam)
	return s
}

// Query is the inverse of FromQuery; All levels are omitted.
func (s State) Query() url.Values {
	values := url.Values{}
	for _, l := range Levels {
		if s.selection[l] != All {
			values.Set(l.String(), s.selection[l])
		}
	}
	if s.Search != "" {
		values.Set(SearchParam, s.Search)
	}
	return values
}

// Key is a canonical encoding of the state, stable across parameter order.
func (s State) Key() string {
	return s.Query().Encode()
}

// MarshalJSON renders every level plus the search token.
func (s State) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, numLevels+1)
	for _, l := range Levels {
		m[l.String()] = s.selection[l]
	}
	m["search"] = s.Search
	return json.Marshal(m)
}

// Select sets level l to value. Choosing All resets every deeper level to All;
// choosing a concrete value keeps deeper selections only while they are still
// offered under the narrower set.
func (s State) Select(records []store.ProteinRecord, l Level, value string) State {
	next := s
	next.selection[l] = value
	if value == All {
		next.resetFrom(l + 1)
	}
	return next.Normalize(records)
}

// Normalize enforces the cascade invariant on a state that arrived from
// outside: a level below All is All, and a value not offered at its level is
// dropped together with everything below it.
func (s State) Normalize(records []store.ProteinRecord) State {
	next := s
	for _, l := range Levels {
		current := next.selection[l]
		if current == All {
			next.resetFrom(l + 1)
			break
		}
		if !contains(Options(records, next, l), current) {
			next.resetFrom(l)
			break
		}
	}
	return next
}

func (s *State) resetFrom(l Level) {
	for ; l < numLevels; l++ {
		s.selection[l] = All
	}
}

// Apply returns the records matching every non-All level exactly and, when a
// search token is set, containing it case-insensitively in at least one column.
// Input order is preserved.
func Apply(records []store.ProteinRecord, s State) []store.ProteinRecord {
	narrowed := narrow(records, s, numLevels)
	if s.Search == "" {
		return narrowed
	}
	token := strings.ToLower(s.Search)
	matched := make([]store.ProteinRecord, 0, len(narrowed))
	for _, r := range narrowed {
		if matchesSearch(r, token) {
			matched = append(matched, r)
		}
	}
	return matched
}

func matchesSearch(r store.ProteinRecord, lowerToken string) bool {
	for _, v := range r.Values() {
		if strings.Contains(strings.ToLower(v), lowerToken) {
			return true
		}
	}
	return false
}

// narrow applies levels before upto.
func narrow(records []store.ProteinRecord, s State, upto Level) []store.ProteinRecord {
	out := make([]store.ProteinRecord, 0, len(records))
	for _, r := range records {
		keep := true
		for l := Level(0); l < upto; l++ {
			if sel := s.selection[l]; sel != All && l.value(r) != sel {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// Options lists the choices for level l under the selections above it:
// All followed by the distinct non-empty values, sorted.
func Options(records []store.ProteinRecord, s State, l Level) []string {
	seen := map[string]struct{}{}
	for _, r := range narrow(records, s, l) {
		if v := l.value(r); v != "" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{All}, values...)
}

// OptionSet returns Options for every level that is currently selectable:
// the first level always, and each deeper level once its parent is set.
func OptionSet(records []store.ProteinRecord, s State) map[string][]string {
	set := map[string][]string{}
	for _, l := range Levels {
		set[l.String()] = Options(records, s, l)
		if s.selection[l] == All {
			break
		}
	}
	return set
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
