// Package fasta reads FASTA formatted text: '>' header lines each followed by
// sequence lines that are concatenated.
package fasta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoRecords is returned when the input holds no header line.
var ErrNoRecords = errors.New("no FASTA records")

// Record is a single FASTA entry.
type Record struct {
	Header   string
	Sequence string
}

// ID is the header up to the first whitespace.
func (r Record) ID() string {
	if fields := strings.Fields(r.Header); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Parse reads every record from r. Blank lines are ignored; sequence text
// before the first header, or a header with no sequence, is an error.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Record
	var current *Record
	var seq strings.Builder
	lineNo := 0

	flush := func() error {
		if current == nil {
			return nil
		}
		if seq.Len() == 0 {
			return fmt.Errorf("record %q has no sequence", current.Header)
		}
		current.Sequence = seq.String()
		records = append(records, *current)
		seq.Reset()
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return nil, err
			}
			current = &Record{Header: strings.TrimSpace(line[1:])}
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: sequence data before first header", lineNo)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Record, error) {
	return Parse(strings.NewReader(s))
}
