// Package tablestore persists the refined tail table.
//
// The CSV layout is a header line `coef_gran,thresh_gran,max_bound` followed
// by one line per coefficient bin holding 2*max_bound values. Values are
// written in shortest round-trip form, so a loaded table answers every lookup
// exactly like the one that was saved.
package tablestore

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"radbound/domain/core"
	"radbound/internal/prawitz"
)

// Save writes b to path. The table is written to a temporary file in the
// same directory and renamed into place, so path never holds a partial table.
func Save(path string, b *prawitz.Bounder) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bounder-*.csv")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	buf := bufio.NewWriterSize(tmp, 1<<20)
	if err := Write(buf, b); err != nil {
		tmp.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close table: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("install table: %w", err)
	}
	return nil
}

// Write encodes b as CSV.
func Write(w io.Writer, b *prawitz.Bounder) error {
	cw := csv.NewWriter(w)
	header := []string{
		strconv.Itoa(b.CoefGran()),
		strconv.Itoa(b.ThreshGran()),
		strconv.Itoa(b.MaxBound()),
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}

	record := make([]string, 2*b.MaxBound())
	for a := 0; a < b.CoefGran(); a++ {
		for y := range record {
			record[y] = strconv.FormatFloat(b.Cell(a, y), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write table row %d: %w", a, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads a table saved by Save.
func Load(path string) (*prawitz.Bounder, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError("table", path)
		}
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	return Read(bufio.NewReaderSize(f, 1<<20))
}

// Read decodes a CSV table, rejecting any malformed header or row.
func Read(r io.Reader) (*prawitz.Bounder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", core.ErrMalformedTable, err)
	}
	if len(header) != 3 {
		return nil, fmt.Errorf("%w: header has %d fields, want 3", core.ErrMalformedTable, len(header))
	}
	shape := make([]int, 3)
	for i, field := range header {
		v, err := strconv.Atoi(field)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("%w: header field %q", core.ErrMalformedTable, field)
		}
		shape[i] = v
	}
	coefGran, threshGran, maxBound := shape[0], shape[1], shape[2]

	bounds := make([][]float64, 0, coefGran)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrMalformedTable, err)
		}
		if len(record) != 2*maxBound {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d",
				core.ErrMalformedTable, len(bounds), len(record), 2*maxBound)
		}
		row := make([]float64, len(record))
		for y, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %q", core.ErrMalformedTable, len(bounds), y, field)
			}
			row[y] = v
		}
		bounds = append(bounds, row)
	}

	return prawitz.NewBounder(bounds, coefGran, threshGran, maxBound)
}

// FileStore keeps one table at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the table at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string                    { return s.path }
func (s *FileStore) Load() (*prawitz.Bounder, error) { return Load(s.path) }
func (s *FileStore) Save(b *prawitz.Bounder) error   { return Save(s.path, b) }
