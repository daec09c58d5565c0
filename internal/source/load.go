package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"dtrecon/internal/model"
)

// Source names used in errors, logs and metrics.
const (
	Orders        = "orders"
	MachineLog    = "machine_log"
	Notifications = "notifications"
	FailureCodes  = "failure_codes"
)

// CSVOptions describes a delimited file.
type CSVOptions struct {
	Delimiter rune
	// Encoding is "utf8" or "latin1".
	Encoding string
}

// Load reads path as XLSX or CSV depending on its extension. Any failure is
// returned as *model.SourceLoadError.
func Load(name, path string, opts CSVOptions) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		t, err = LoadXLSX(name, path)
	default:
		t, err = LoadCSV(name, path, opts)
	}
	if err != nil {
		return nil, &model.SourceLoadError{Source: name, Path: path, Err: err}
	}
	return t, nil
}

// LoadCSV reads a delimited file. Rows may have varying field counts.
func LoadCSV(name, path string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return ReadCSV(name, f, opts)
}

// ReadCSV parses delimited rows from r; the first record is the header.
func ReadCSV(name string, r io.Reader, opts CSVOptions) (*Table, error) {
	switch strings.ToLower(opts.Encoding) {
	case "latin1", "latin-1", "iso-8859-1":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	case "cp1252", "windows-1252":
		r = charmap.Windows1252.NewDecoder().Reader(r)
	}
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rec)
	}
	return NewTable(name, header, rows), nil
}

// LoadXLSX reads the first sheet of a workbook; the first row is the header.
func LoadXLSX(name, path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	return NewTable(name, rows[0], rows[1:]), nil
}

// Paths locates the four inputs of a run.
type Paths struct {
	Orders        string
	MachineLog    string
	Notifications string
	FailureCodes  string
}

// Set holds the raw tables of one run.
type Set struct {
	Orders        *Table
	MachineLog    *Table
	Notifications *Table
	FailureCodes  *Table
}

// LoadAll loads every source, failing on the first that cannot be read.
// sapOpts applies to the three SAP exports when they are not workbooks.
func LoadAll(p Paths, machineOpts, sapOpts CSVOptions) (*Set, error) {
	var s Set
	var err error
	if s.Orders, err = Load(Orders, p.Orders, sapOpts); err != nil {
		return nil, err
	}
	if s.MachineLog, err = Load(MachineLog, p.MachineLog, machineOpts); err != nil {
		return nil, err
	}
	if s.Notifications, err = Load(Notifications, p.Notifications, sapOpts); err != nil {
		return nil, err
	}
	if s.FailureCodes, err = Load(FailureCodes, p.FailureCodes, sapOpts); err != nil {
		return nil, err
	}
	return &s, nil
}
