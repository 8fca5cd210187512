package excel

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/lyphgraph/pkg/errors"
)

// SheetMain holds the properties of the model itself.
const SheetMain = "main"

// Sheet is a table whose first row names the columns.
type Sheet struct {
	Name string
	Rows [][]string
}

// Header returns the column names.
func (s *Sheet) Header() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}

// Records returns the data rows.
func (s *Sheet) Records() [][]string {
	if len(s.Rows) < 2 {
		return nil
	}
	return s.Rows[1:]
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Add appends a sheet built from rows.
func (w *Workbook) Add(name string, rows ...[]string) *Sheet {
	s := &Sheet{Name: name, Rows: rows}
	w.Sheets = append(w.Sheets, s)
	return s
}

// ReadCSV reads a single CSV sheet. Rows may have different lengths.
func ReadCSV(name string, r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "sheet %s", name)
	}
	return &Sheet{Name: name, Rows: rows}, nil
}

// ReadCSVDir reads every .csv file of dir as a sheet named after the file.
// Sheets are ordered by file name.
func ReadCSVDir(dir string) (*Workbook, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "list %s", dir)
	}
	if len(paths) == 0 {
		if _, statErr := os.Stat(dir); statErr != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, statErr, "open %s", dir)
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "no csv sheets in %s", dir)
	}
	slices.Sort(paths)

	wb := &Workbook{}
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		f, err := os.Open(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", p)
		}
		s, err := ReadCSV(name, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, s)
	}
	return wb, nil
}

// ReadXLSX reads every sheet of an Excel workbook, in workbook order.
func ReadXLSX(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open %s", path)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "sheet %s", name)
		}
		wb.Sheets = append(wb.Sheets, &Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// ReadJSONSheets reads a JSON object mapping sheet names to either a list of
// rows (arrays of cells, header first) or a list of row objects. Sheets are
// ordered by name; the columns of row objects are sorted.
func ReadJSONSheets(r io.Reader) (*Workbook, error) {
	var raw map[string][]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode sheets")
	}
	wb := &Workbook{}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		rows, err := sheetRows(raw[name])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "sheet %s", name)
		}
		wb.Sheets = append(wb.Sheets, &Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

func sheetRows(items []any) ([][]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if _, ok := items[0].(map[string]any); ok {
		return objectRows(items)
	}
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		cells, ok := item.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not an array", i)
		}
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = cellString(c)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func objectRows(items []any) ([][]string, error) {
	var header []string
	seen := map[string]bool{}
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not an object", i)
		}
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	slices.Sort(header)
	rows := [][]string{header}
	for _, item := range items {
		obj := item.(map[string]any)
		row := make([]string, len(header))
		for j, k := range header {
			if v, ok := obj[k]; ok {
				row[j] = cellString(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cellString renders a decoded JSON cell the way a spreadsheet shows it.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool, float64:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
