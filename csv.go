package xlspill

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses CSV records into a Grid. Fields that parse as numbers
// become float64 and TRUE/FALSE become booleans; everything else stays
// text. Rows may have different lengths.
func ReadCSV(r io.Reader) (Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	g := make(Grid, len(records))
	for i, rec := range records {
		g[i] = make([]any, len(rec))
		for j, field := range rec {
			g[i][j] = ParseValue(field)
		}
	}
	return g, nil
}

// LoadCSV reads a CSV file into a Grid.
func LoadCSV(path string) (Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes g as CSV records.
func WriteCSV(w io.Writer, g Grid) error {
	cw := csv.NewWriter(w)
	for _, row := range g {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = toText(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ParseValue converts typed-in text to a cell value: numbers become
// float64, TRUE/FALSE booleans, blanks "" and everything else stays text.
func ParseValue(field string) any {
	s := strings.TrimSpace(field)
	switch {
	case s == "":
		return ""
	case strings.EqualFold(s, "TRUE"):
		return true
	case strings.EqualFold(s, "FALSE"):
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return field
}
