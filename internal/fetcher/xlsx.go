// Package fetcher reads the raw input workbook and optional key-mapping files.
package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/jobcost-cli/internal/normalize"
)

// Sheet is one parsed worksheet: a header index over string rows.
type Sheet struct {
	Name    string
	Rows    [][]string
	columns map[string]int
}

// ReadWorkbook opens an XLSX file and parses the named sheets. A missing
// sheet is fatal and named in the error.
func ReadWorkbook(path string, names ...string) (map[string]*Sheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", path)
	}

	sheets := make(map[string]*Sheet, len(names))
	for _, name := range names {
		src, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: required sheet %q not found in %s", name, path)
		}
		sheets[name] = parseSheet(name, src)
	}
	return sheets, nil
}

// NewSheet builds a Sheet from an in-memory header and rows. Used by tests
// and anywhere tabular data arrives without a workbook.
func NewSheet(name string, header []string, rows [][]string) *Sheet {
	s := &Sheet{Name: name, Rows: rows, columns: make(map[string]int, len(header))}
	for j, h := range header {
		h = normalize.Text(h)
		if h == "" {
			continue
		}
		if _, dup := s.columns[h]; !dup {
			s.columns[h] = j
		}
	}
	return s
}

func parseSheet(name string, src *xlsx.Sheet) *Sheet {
	s := &Sheet{Name: name, columns: make(map[string]int)}

	for i, row := range src.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}

		if i == 0 {
			for j, h := range cells {
				h = normalize.Text(h)
				if h == "" {
					continue
				}
				if _, dup := s.columns[h]; !dup {
					s.columns[h] = j
				}
			}
			continue
		}
		s.Rows = append(s.Rows, cells)
	}
	return s
}

// Require errors on the first missing required column, naming it and the sheet.
func (s *Sheet) Require(cols ...string) error {
	for _, c := range cols {
		if _, ok := s.columns[c]; !ok {
			return eris.Errorf("xlsx: sheet %q is missing required column %q", s.Name, c)
		}
	}
	return nil
}

// Has reports whether the sheet carries a column.
func (s *Sheet) Has(col string) bool {
	_, ok := s.columns[col]
	return ok
}

// Col returns the named cell of a row, "" when the column or cell is absent.
func (s *Sheet) Col(row []string, col string) string {
	idx, ok := s.columns[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
