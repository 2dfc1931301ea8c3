// Package stats derives the chart data shown on the statistics page.
package stats

import (
	"sort"
	"strings"

	"cuticulome/internal/store"
)

const (
	DefaultTopSpecies  = 10
	DefaultTopFamilies = 15
)

// Summary holds the headline counts.
type Summary struct {
	TotalProteins   int `json:"total_proteins"`
	Species         int `json:"species"`
	ProteinFamilies int `json:"protein_families"`
}

// Count is one bar of a frequency chart.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Report bundles every statistic for one render.
type Report struct {
	Summary         Summary           `json:"summary"`
	TopSpecies      []Count           `json:"top_species"`
	ProteinFamilies []Count           `json:"protein_families"`
	Publications    []PublicationYear `json:"publications_by_year"`
}

// Summarize counts records, distinct species and distinct protein families.
// Absent values are not counted as a distinct value.
func Summarize(records []store.ProteinRecord) Summary {
	species := map[string]struct{}{}
	families := map[string]struct{}{}
	for _, r := range records {
		if r.Species != "" {
			species[r.Species] = struct{}{}
		}
		if r.ProteinFamily != "" {
			families[r.ProteinFamily] = struct{}{}
		}
	}
	return Summary{
		TotalProteins:   len(records),
		Species:         len(species),
		ProteinFamilies: len(families),
	}
}

// TopSpecies returns the n most frequent species, most frequent first.
// Equal counts keep the order in which the species first appeared.
func TopSpecies(records []store.ProteinRecord, n int) []Count {
	return frequencies(records, n, func(r store.ProteinRecord) string { return r.Species })
}

// FamilyHistogram returns the n most frequent protein families, ignoring
// records whose family is absent or blank.
func FamilyHistogram(records []store.ProteinRecord, n int) []Count {
	return frequencies(records, n, func(r store.ProteinRecord) string {
		return strings.TrimSpace(r.ProteinFamily)
	})
}

func frequencies(records []store.ProteinRecord, n int, key func(store.ProteinRecord) string) []Count {
	index := map[string]int{}
	var counts []Count
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			counts[i].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, Count{Label: k, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Build assembles a Report. publications comes from LoadPublications.
func Build(records []store.ProteinRecord, topSpecies int, publications []PublicationYear) Report {
	return Report{
		Summary:         Summarize(records),
		TopSpecies:      TopSpecies(records, topSpecies),
		ProteinFamilies: FamilyHistogram(records, DefaultTopFamilies),
		Publications:    publications,
	}
}
