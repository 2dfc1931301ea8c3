package filter

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuticulome/internal/store"
)

func testRecords() []store.ProteinRecord {
	return []store.ProteinRecord{
		{Name: "Dme_CPR1", Species: "Drosophila melanogaster", Subphylum: "Hexapoda", Class: "Insecta", Order: "Diptera", Family: "Drosophilidae", Genus: "Drosophila", ProteinFamily: "CPR", Function: "Wing hardening"},
		{Name: "Dme_CPR2", Species: "Drosophila melanogaster", Subphylum: "Hexapoda", Class: "Insecta", Order: "Diptera", Family: "Drosophilidae", Genus: "Drosophila", ProteinFamily: "CPR", Function: "Larval cuticle"},
		{Name: "Ame_CPR1", Species: "Apis mellifera", Subphylum: "Hexapoda", Class: "Insecta", Order: "Hymenoptera", Family: "Apidae", Genus: "Apis", ProteinFamily: "CPAP", Function: "Sclerotization"},
		{Name: "Dpu_CP1", Species: "Daphnia pulex", Subphylum: "Crustacea", Class: "Branchiopoda", Order: "Diplostraca", Family: "Daphniidae", Genus: "Daphnia", Function: "Carapace"},
		{Name: "Unk_CP1", Species: "Unknown sp", Subphylum: "Crustacea", Function: "Unclassified"},
	}
}

func names(records []store.ProteinRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestApply_AllReturnsEverything(t *testing.T) {
	records := testRecords()
	assert.Equal(t, names(records), names(Apply(records, NewState())))
}

func TestApply_CascadingScenario(t *testing.T) {
	records := []store.ProteinRecord{
		{Name: "a", Species: "A_sp", Subphylum: "X"},
		{Name: "b", Species: "B_sp", Subphylum: "Y"},
	}
	s := NewState().Select(records, Subphylum, "Y")

	assert.Equal(t, []string{"b"}, names(Apply(records, s)))
	assert.Equal(t, []string{All, "B_sp"}, Options(records, s, Species))
	assert.Equal(t, []string{All, "X", "Y"}, Options(records, s, Subphylum))
}

func TestApply_ExactCaseSensitiveMatch(t *testing.T) {
	records := testRecords()
	s := NewState()
	s.selection[Subphylum] = "hexapoda"
	assert.Empty(t, Apply(records, s))
}

func TestApply_IntersectionOfLevelsAndSearch(t *testing.T) {
	records := testRecords()
	s := NewState().
		Select(records, Subphylum, "Hexapoda").
		Select(records, Class, "Insecta")
	s.Search = "cPr"

	got := Apply(records, s)
	assert.Equal(t, []string{"Dme_CPR1", "Dme_CPR2", "Ame_CPR1"}, names(got))

	for _, r := range got {
		assert.Equal(t, "Hexapoda", r.Subphylum)
		assert.True(t, matchesSearch(r, "cpr"))
	}
}

func TestApply_SearchAnyColumn(t *testing.T) {
	records := testRecords()
	s := NewState()
	s.Search = "CARAPACE"
	assert.Equal(t, []string{"Dpu_CP1"}, names(Apply(records, s)))

	s.Search = "no such text"
	assert.Empty(t, Apply(records, s))
}

func TestApply_IsSubsetInOrder(t *testing.T) {
	records := testRecords()
	s := NewState().Select(records, Subphylum, "Crustacea")
	got := Apply(records, s)
	assert.Equal(t, []string{"Dpu_CP1", "Unk_CP1"}, names(got))
}

func TestOptions_ExcludeAbsentValuesButKeepRecords(t *testing.T) {
	records := testRecords()
	s := NewState().Select(records, Subphylum, "Crustacea")

	assert.Equal(t, []string{All, "Branchiopoda"}, Options(records, s, Class))
	// Unk_CP1 has no class but is still visible under All
	assert.Contains(t, names(Apply(records, s)), "Unk_CP1")
}

func TestOptions_SortedAndDeduplicated(t *testing.T) {
	records := testRecords()
	assert.Equal(t, []string{All, "Apis mellifera", "Daphnia pulex", "Drosophila melanogaster", "Unknown sp"},
		Options(records, NewState(), Species))
}

func TestSelect_AllResetsDeeperLevels(t *testing.T) {
	records := testRecords()
	s := NewState().
		Select(records, Subphylum, "Hexapoda").
		Select(records, Class, "Insecta").
		Select(records, Order, "Diptera").
		Select(records, Family, "Drosophilidae")

	reset := s.Select(records, Class, All)
	assert.Equal(t, "Hexapoda", reset.Get(Subphylum))
	for _, l := range []Level{Class, Order, Family, Genus, Species} {
		assert.Equal(t, All, reset.Get(l), l.String())
	}

	// idempotent
	assert.Equal(t, reset, reset.Select(records, Class, All))
}

func TestSelect_InvalidDeeperSelectionIsReset(t *testing.T) {
	records := testRecords()
	s := NewState().
		Select(records, Subphylum, "Hexapoda").
		Select(records, Class, "Insecta").
		Select(records, Order, "Diptera")

	s = s.Select(records, Subphylum, "Crustacea")
	assert.Equal(t, "Crustacea", s.Get(Subphylum))
	assert.Equal(t, All, s.Get(Class))
	assert.Equal(t, All, s.Get(Order))
}

func TestSelect_ValidDeeperSelectionIsKept(t *testing.T) {
	records := testRecords()
	s := NewState().
		Select(records, Subphylum, "Hexapoda").
		Select(records, Class, "Insecta").
		Select(records, Order, "Hymenoptera")

	s = s.Select(records, Class, "Insecta")
	assert.Equal(t, "Hymenoptera", s.Get(Order))
}

func TestNormalize_ForcesLevelsBelowAll(t *testing.T) {
	records := testRecords()
	s := FromQuery(url.Values{"class": {"Insecta"}, "order": {"Diptera"}})
	n := s.Normalize(records)
	for _, l := range Levels {
		assert.Equal(t, All, n.Get(l))
	}
}

func TestNormalize_DropsUnofferedValue(t *testing.T) {
	records := testRecords()
	s := FromQuery(url.Values{"subphylum": {"Hexapoda"}, "class": {"Branchiopoda"}, "order": {"Diplostraca"}})
	n := s.Normalize(records)
	assert.Equal(t, "Hexapoda", n.Get(Subphylum))
	assert.Equal(t, All, n.Get(Class))
	assert.Equal(t, All, n.Get(Order))
}

func TestFromQuery_RoundTrip(t *testing.T) {
	values := url.Values{"subphylum": {"Hexapoda"}, "class": {"Insecta"}, "q": {"cpr"}}
	s := FromQuery(values)
	assert.Equal(t, "Hexapoda", s.Get(Subphylum))
	assert.Equal(t, "cpr", s.Search)
	assert.Equal(t, values, s.Query())

	other := FromQuery(url.Values{"q": {"cpr"}, "class": {"Insecta"}, "subphylum": {"Hexapoda"}})
	assert.Equal(t, s.Key(), other.Key())
}

func TestOptionSet_OnlySelectableLevels(t *testing.T) {
	records := testRecords()
	set := OptionSet(records, NewState())
	assert.Len(t, set, 1)
	assert.Contains(t, set, "subphylum")

	s := NewState().Select(records, Subphylum, "Hexapoda")
	set = OptionSet(records, s)
	assert.Len(t, set, 2)
	assert.Equal(t, []string{All, "Insecta"}, set["class"])
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("Genus")
	require.True(t, ok)
	assert.Equal(t, Genus, l)

	_, ok = ParseLevel("kingdom")
	assert.False(t, ok)
}

func TestState_MarshalJSON(t *testing.T) {
	records := testRecords()
	s := NewState().Select(records, Subphylum, "Crustacea")
	s.Search = "cp"
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Crustacea", decoded["subphylum"])
	assert.Equal(t, All, decoded["species"])
	assert.Equal(t, "cp", decoded["search"])
}
