package store

// ProteinRecord is one curated row of the proteins table. Absent (NULL) values
// are held as empty strings.
type ProteinRecord struct {
	Name          string `json:"name"`
	Species       string `json:"species"`
	Phylum        string `json:"phylum"`
	Subphylum     string `json:"subphylum"`
	Class         string `json:"class"`
	Order         string `json:"order"`
	Family        string `json:"family"`
	Genus         string `json:"genus"`
	ProteinFamily string `json:"protein_family"`
	Function      string `json:"function"`
	Reference     string `json:"reference"`
	DOI           string `json:"doi"`
}

// Column pairs a display header with the field it reads.
type Column struct {
	Header string
	Value  func(ProteinRecord) string
}

// Columns lists every column in table order. Export and search both walk it.
var Columns = []Column{
	{"Cuticular Protein Name", func(r ProteinRecord) string { return r.Name }},
	{"Species", func(r ProteinRecord) string { return r.Species }},
	{"Phylum", func(r ProteinRecord) string { return r.Phylum }},
	{"Subphylum", func(r ProteinRecord) string { return r.Subphylum }},
	{"Class", func(r ProteinRecord) string { return r.Class }},
	{"Order", func(r ProteinRecord) string { return r.Order }},
	{"Family", func(r ProteinRecord) string { return r.Family }},
	{"Genus", func(r ProteinRecord) string { return r.Genus }},
	{"Protein Family", func(r ProteinRecord) string { return r.ProteinFamily }},
	{"Function", func(r ProteinRecord) string { return r.Function }},
	{"Reference", func(r ProteinRecord) string { return r.Reference }},
	{"DOI", func(r ProteinRecord) string { return r.DOI }},
}

// DisplayHeaders are the columns shown in the browse table.
var DisplayHeaders = []string{
	"Cuticular Protein Name",
	"Species",
	"Protein Family",
	"Function",
	"Reference",
	"DOI",
}

// Headers returns the header row for Columns.
func Headers() []string {
	headers := make([]string, len(Columns))
	for i, col := range Columns {
		headers[i] = col.Header
	}
	return headers
}

// Values returns the record's fields in Columns order.
func (r ProteinRecord) Values() []string {
	values := make([]string, len(Columns))
	for i, col := range Columns {
		values[i] = col.Value(r)
	}
	return values
}
