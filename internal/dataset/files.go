package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"worldtour/internal/world"
)

// LoadFile reads raw cities from a .csv or .xlsx file.
func LoadFile(path string) ([]world.City, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSVFile(path)
	case ".xlsx", ".xlsm":
		return LoadXLSXFile(path)
	default:
		return nil, fmt.Errorf("unsupported city file %q (want .csv or .xlsx)", path)
	}
}

func LoadCSVFile(path string) ([]world.City, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cities, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cities, nil
}

// LoadCSV reads a header row followed by city rows.
func LoadCSV(r io.Reader) ([]world.City, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, &world.DataIntegrityError{Field: "header", Reason: "empty file"}
	}
	return ParseRecords(records[0], records[1:])
}

// LoadXLSXFile reads the first sheet of a workbook.
func LoadXLSXFile(path string) ([]world.City, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cities, err := loadWorkbook(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cities, nil
}

// LoadXLSX reads the first sheet of a workbook from r.
func LoadXLSX(r io.Reader) ([]world.City, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loadWorkbook(f)
}

func loadWorkbook(f *excelize.File) ([]world.City, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &world.DataIntegrityError{Field: "sheet", Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &world.DataIntegrityError{Field: "header", Reason: "empty sheet"}
	}
	return ParseRecords(rows[0], rows[1:])
}
