package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
)

// PublicationYear is one row of the publications-by-year file.
type PublicationYear struct {
	Year  int `json:"year"`
	Count int `json:"publications"`
}

// LoadPublications reads the Year,Count CSV at path. A missing file yields no
// rows and no error.
func LoadPublications(path string) ([]PublicationYear, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open publications: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParsePublications(f)
}

// ParsePublications reads a CSV whose header names Year and Count columns.
// Rows where either is blank are dropped; the result is sorted by year.
func ParsePublications(r io.Reader) ([]PublicationYear, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read publications header: %w", err)
	}

	yearCol, countCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "Year":
			yearCol = i
		case "Count":
			countCol = i
		}
	}
	if yearCol < 0 || countCol < 0 {
		return nil, fmt.Errorf("publications file needs Year and Count columns, got %v", header)
	}

	var rows []PublicationYear
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read publications line %d: %w", line, err)
		}
		if yearCol >= len(record) || countCol >= len(record) {
			continue
		}
		yearField := strings.TrimSpace(record[yearCol])
		countField := strings.TrimSpace(record[countCol])
		if yearField == "" || countField == "" {
			continue
		}
		year, err := parseWhole(yearField)
		if err != nil {
			return nil, fmt.Errorf("line %d: year %q: %w", line, yearField, err)
		}
		count, err := parseWhole(countField)
		if err != nil {
			return nil, fmt.Errorf("line %d: count %q: %w", line, countField, err)
		}
		rows = append(rows, PublicationYear{Year: year, Count: count})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows, nil
}

// parseWhole accepts "2019" as well as spreadsheet exports like "2019.0".
func parseWhole(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
