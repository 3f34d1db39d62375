package loader

import (
	"errors"
	"fmt"
)

// Canonical column names
const (
	ColCompany  = "Company"
	ColSector   = "Sector"
	ColCompany1 = "Company1"
	ColCompany2 = "Company2"
	ColWeight   = "Weight"
)

// ErrMissingColumn is returned when a required column can neither be found nor guessed
var ErrMissingColumn = errors.New("required column missing")

// indexColumns are written by dataframe exports and carry no data
var indexColumns = map[string]bool{
	"":           true,
	"Unnamed: 0": true,
}

// Guess records a column that was taken by position because its name was missing
type Guess struct {
	Column   string
	Position int    // zero-based, after index columns were dropped
	Header   string // header text found at that position
}

func (g Guess) String() string {
	return fmt.Sprintf("using column %d (%q) as %q", g.Position+1, g.Header, g.Column)
}

// Schema maps canonical column names to record positions
type Schema struct {
	columns map[string]int
	Guesses []Guess
}

// Index returns the record position of a canonical column
func (s *Schema) Index(column string) (int, bool) {
	i, ok := s.columns[column]
	return i, ok
}

// resolveSchema drops index columns, then finds every wanted column by name. A
// column missing by name takes its position among the remaining columns, or the
// first remaining column when that position is already taken. Optional columns
// that cannot be resolved are left out of the schema.
func resolveSchema(header []string, required, optional []string) (*Schema, error) {
	kept := make([]int, 0, len(header))
	byName := make(map[string]int, len(header))
	for i, name := range header {
		if indexColumns[name] {
			continue
		}
		kept = append(kept, i)
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}

	s := &Schema{columns: make(map[string]int)}
	wanted := append(append([]string(nil), required...), optional...)
	claimed := make(map[int]bool, len(wanted))
	for _, column := range wanted {
		if i, ok := byName[column]; ok {
			s.columns[column] = i
			claimed[i] = true
		}
	}

	for pos, column := range wanted {
		if _, ok := s.columns[column]; ok {
			continue
		}
		if k, ok := unclaimed(kept, claimed, pos); ok {
			i := kept[k]
			s.columns[column] = i
			claimed[i] = true
			s.Guesses = append(s.Guesses, Guess{Column: column, Position: k, Header: header[i]})
			continue
		}
		if pos < len(required) {
			return nil, fmt.Errorf("%w: %q (header %q)", ErrMissingColumn, column, header)
		}
	}
	return s, nil
}

// unclaimed returns the kept position to guess from: pos itself when free,
// otherwise the first free one.
func unclaimed(kept []int, claimed map[int]bool, pos int) (int, bool) {
	if pos < len(kept) && !claimed[kept[pos]] {
		return pos, true
	}
	for k, i := range kept {
		if !claimed[i] {
			return k, true
		}
	}
	return 0, false
}
