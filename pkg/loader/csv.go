package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-flowviz/pkg/graph"
	"github.com/dd0wney/cluso-flowviz/pkg/logging"
)

// DefaultWeight replaces edge weights that are not numeric
const DefaultWeight = 0.01

// CompanyRow is one normalized row of the company table
type CompanyRow struct {
	Company string
	Sector  string
}

// EdgeRow is one normalized row of the edge table
type EdgeRow struct {
	From    string
	To      string
	Weight  float64
	Coerced bool // Weight was not numeric and DefaultWeight was used
}

// TableStats describes what normalization did to a table
type TableStats struct {
	Rows    int
	Skipped int
	Coerced int
	Guesses []Guess
}

func readTable(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded, not rejected
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("empty table: no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}
	return header, records, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func logGuesses(logger logging.Logger, guesses []Guess) {
	for _, g := range guesses {
		logger.Warn("column not found, guessing by position",
			logging.String("column", g.Column),
			logging.Int("position", g.Position+1),
			logging.String("header", g.Header),
		)
	}
}

// ReadCompanies reads a Company,Sector table. A missing Company column is taken from
// the first column and a missing Sector column from the second, skipping columns
// already matched by name; without a spare column every company gets
// graph.UnknownSector. Rows without a company are skipped.
func ReadCompanies(r io.Reader, logger logging.Logger) ([]CompanyRow, TableStats, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, TableStats{}, err
	}
	schema, err := resolveSchema(header, []string{ColCompany}, []string{ColSector})
	if err != nil {
		return nil, TableStats{}, err
	}
	logGuesses(logger, schema.Guesses)

	companyIdx, _ := schema.Index(ColCompany)
	sectorIdx, hasSector := schema.Index(ColSector)
	if !hasSector {
		logger.Warn("no sector column, defaulting every company",
			logging.Sector(graph.UnknownSector))
	}

	stats := TableStats{Guesses: schema.Guesses}
	rows := make([]CompanyRow, 0, len(records))
	for line, record := range records {
		stats.Rows++
		company := cell(record, companyIdx)
		if company == "" {
			stats.Skipped++
			logger.Warn("company row without a name skipped", logging.Int("row", line+2))
			continue
		}
		sector := graph.UnknownSector
		if hasSector {
			if s := cell(record, sectorIdx); s != "" {
				sector = s
			}
		}
		rows = append(rows, CompanyRow{Company: company, Sector: sector})
	}
	return rows, stats, nil
}

// ReadEdges reads a Company1,Company2,Weight table. Missing columns are taken by
// position. Weights that do not parse become DefaultWeight; negative weights and
// rows without both endpoints are skipped.
func ReadEdges(r io.Reader, logger logging.Logger) ([]EdgeRow, TableStats, error) {
	header, records, err := readTable(r)
	if err != nil {
		return nil, TableStats{}, err
	}
	schema, err := resolveSchema(header, []string{ColCompany1, ColCompany2, ColWeight}, nil)
	if err != nil {
		return nil, TableStats{}, err
	}
	logGuesses(logger, schema.Guesses)

	fromIdx, _ := schema.Index(ColCompany1)
	toIdx, _ := schema.Index(ColCompany2)
	weightIdx, _ := schema.Index(ColWeight)

	stats := TableStats{Guesses: schema.Guesses}
	rows := make([]EdgeRow, 0, len(records))
	for line, record := range records {
		stats.Rows++
		from, to := cell(record, fromIdx), cell(record, toIdx)
		if from == "" || to == "" {
			stats.Skipped++
			logger.Warn("edge row without both endpoints skipped", logging.Int("row", line+2))
			continue
		}

		row := EdgeRow{From: from, To: to}
		raw := cell(record, weightIdx)
		w, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil || w != w: // unparsable or NaN
			row.Weight = DefaultWeight
			row.Coerced = true
			stats.Coerced++
		case w < 0:
			stats.Skipped++
			logger.Warn("edge with negative weight skipped",
				logging.EdgePair(from, to), logging.Float64("weight", w))
			continue
		default:
			row.Weight = w
		}
		rows = append(rows, row)
	}

	if stats.Coerced > 0 {
		logger.Warn("some weights are not numeric, using default weight",
			logging.Count(stats.Coerced), logging.Float64("default_weight", DefaultWeight))
	}
	return rows, stats, nil
}

// table is a memory-mapped input table
type table struct {
	*io.SectionReader
	m *mmap.ReaderAt
}

func (t *table) Close() error { return t.m.Close() }

func openTable(path string) (*table, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &table{SectionReader: io.NewSectionReader(m, 0, int64(m.Len())), m: m}, nil
}

// LoadCompanies reads the company table at path
func LoadCompanies(path string, logger logging.Logger) ([]CompanyRow, TableStats, error) {
	f, err := openTable(path)
	if err != nil {
		return nil, TableStats{}, err
	}
	defer f.Close()

	logger = logger.With(logging.File(path))
	rows, stats, err := ReadCompanies(f, logger)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("loaded company table", logging.Count(len(rows)), logging.Int("skipped", stats.Skipped))
	return rows, stats, nil
}

// LoadEdges reads the edge table at path
func LoadEdges(path string, logger logging.Logger) ([]EdgeRow, TableStats, error) {
	f, err := openTable(path)
	if err != nil {
		return nil, TableStats{}, err
	}
	defer f.Close()

	logger = logger.With(logging.File(path))
	rows, stats, err := ReadEdges(f, logger)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("loaded edge table", logging.Count(len(rows)), logging.Int("skipped", stats.Skipped))
	return rows, stats, nil
}
