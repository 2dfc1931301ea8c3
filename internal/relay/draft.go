package relay

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"cuticulome/internal/fasta"
)

// Draft is a proposed new record as typed into the submission form.
type Draft struct {
	ProteinName     string `form:"protein_name" json:"protein_name"`
	Species         string `form:"species" json:"species"`
	ProteinFamily   string `form:"protein_family" json:"protein_family"`
	Function        string `form:"function" json:"function"`
	Tissue          string `form:"tissue" json:"tissue"`
	ProteinSequence string `form:"protein_sequence" json:"protein_sequence"`
	CDSSequence     string `form:"cds_sequence" json:"cds_sequence"`
	Reference       string `form:"reference" json:"reference"`
	DOI             string `form:"doi" json:"doi"`
	SubmitterName   string `form:"submitter_name" json:"submitter_name"`
	SubmitterEmail  string `form:"submitter_email" json:"submitter_email"`
}

type fieldSpec struct {
	name     string
	label    string
	maxChars int
	get      func(Draft) string
}

// fields follows config.FormFields order.
var fields = []fieldSpec{
	{"protein_name", "Protein name", 200, func(d Draft) string { return d.ProteinName }},
	{"species", "Species", 200, func(d Draft) string { return d.Species }},
	{"protein_family", "Protein family", 200, func(d Draft) string { return d.ProteinFamily }},
	{"function", "Function", 500, func(d Draft) string { return d.Function }},
	{"tissue", "Tissue specificity", 200, func(d Draft) string { return d.Tissue }},
	{"protein_sequence", "Protein sequence", 50000, func(d Draft) string { return d.ProteinSequence }},
	{"cds_sequence", "CDS sequence", 150000, func(d Draft) string { return d.CDSSequence }},
	{"reference", "Reference", 300, func(d Draft) string { return d.Reference }},
	{"doi", "DOI or URL", 200, func(d Draft) string { return d.DOI }},
	{"submitter_name", "Your name", 100, func(d Draft) string { return d.SubmitterName }},
	{"submitter_email", "Email", 100, func(d Draft) string { return d.SubmitterEmail }},
}

// Values maps each form field to its trimmed value.
func (d Draft) Values() map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.name] = strings.TrimSpace(f.get(d))
	}
	return values
}

// Validate returns a *ValidationError carrying every problem, or nil.
func (d Draft) Validate() error {
	v := d.Values()
	var messages []string

	if v["protein_name"] == "" {
		messages = append(messages, "Protein name is required.")
	}
	if v["species"] == "" {
		messages = append(messages, "Species name is required.")
	}
	if v["function"] == "" {
		messages = append(messages, "Function is required.")
	}
	if v["submitter_email"] == "" {
		messages = append(messages, "Email is required.")
	} else if !strings.Contains(v["submitter_email"], "@") {
		messages = append(messages, "Please enter a valid email address.")
	}

	for _, f := range fields {
		if utf8.RuneCountInString(v[f.name]) > f.maxChars {
			messages = append(messages, fmt.Sprintf("%s must be at most %d characters.", f.label, f.maxChars))
		}
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

// Notes lists problems that do not block a submission. Sequences are
// forwarded as typed; curators see a note when one is not FASTA.
func (d Draft) Notes() []string {
	v := d.Values()
	var notes []string
	for _, name := range []string{"protein_sequence", "cds_sequence"} {
		if v[name] == "" {
			continue
		}
		if _, err := fasta.ParseString(v[name]); err != nil {
			notes = append(notes, fmt.Sprintf("%s is not in FASTA format.", labelFor(name)))
		}
	}
	return notes
}

func labelFor(name string) string {
	for _, f := range fields {
		if f.name == name {
			return f.label
		}
	}
	return name
}
