package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"stockmaster/internal/model"

	"github.com/xuri/excelize/v2"
)

type xlsxTablaRepo struct {
	mu    sync.Mutex // serialises file I/O only, not read-modify-write cycles
	path  string
	sheet string
}

// NewXLSXTablaRepository stores the table in a local workbook. A missing file
// reads as an empty table and is created on the first write.
func NewXLSXTablaRepository(path, sheet string) TablaRepository {
	return &xlsxTablaRepo{path: path, sheet: sheet}
}

func (r *xlsxTablaRepo) ObtenerTabla(_ context.Context) (*model.Tabla, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := excelize.OpenFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		t, _ := model.FromRows(nil)
		return t, nil
	}
	if err != nil {
		return nil, leerErr(err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(r.sheet); idx < 0 {
		return nil, leerErr(fmt.Errorf("la hoja %q no existe en %s", r.sheet, r.path))
	}
	rows, err := f.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, leerErr(err)
	}
	t, err := model.FromRows(rows)
	if err != nil {
		return nil, leerErr(err)
	}
	return t, nil
}

func (r *xlsxTablaRepo) ReemplazarTabla(_ context.Context, t *model.Tabla) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.open()
	if err != nil {
		return escribirErr(err)
	}
	defer f.Close()

	if err := WriteSheet(f, r.sheet, t); err != nil {
		return escribirErr(err)
	}
	if err := f.SaveAs(r.path); err != nil {
		return escribirErr(err)
	}
	return nil
}

func (r *xlsxTablaRepo) Ping(_ context.Context) error {
	if _, err := os.Stat(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// open returns the existing workbook or a fresh one whose default sheet is
// renamed to r.sheet.
func (r *xlsxTablaRepo) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), r.sheet); err != nil {
			return nil, err
		}
		return f, nil
	}
	return f, err
}

// WriteSheet replaces the contents of sheet with the table, creating the sheet
// when needed. Stock cells are written as numbers.
func WriteSheet(f *excelize.File, sheet string, t *model.Tabla) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	} else {
		existing, err := f.GetRows(sheet)
		if err != nil {
			return err
		}
		for i := len(existing); i >= 1; i-- {
			if err := f.RemoveRow(sheet, i); err != nil {
				return err
			}
		}
	}

	stockCol := -1
	for i, c := range t.Columnas {
		if c == model.ColStock {
			stockCol = i
		}
	}
	for i, row := range t.ToRows() {
		values := make([]interface{}, len(row))
		for j, cell := range row {
			values[j] = cell
			if i > 0 && j == stockCol && cell != "" {
				if n, err := strconv.Atoi(cell); err == nil {
					values[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
