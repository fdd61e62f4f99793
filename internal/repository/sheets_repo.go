package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"stockmaster/internal/model"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

type sheetsTablaRepo struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSheetsTablaRepository stores the table in one worksheet of a Google
// spreadsheet. The first row is the header.
func NewSheetsTablaRepository(svc *sheets.Service, spreadsheetID, worksheet string) TablaRepository {
	return &sheetsTablaRepo{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}
}

func (r *sheetsTablaRepo) ObtenerTabla(ctx context.Context) (*model.Tabla, error) {
	resp, err := r.svc.Spreadsheets.Values.Get(r.spreadsheetID, r.rango("")).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, leerErr(r.explain(err))
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = cellString(cell)
		}
	}
	t, err := model.FromRows(rows)
	if err != nil {
		return nil, leerErr(err)
	}

	for i := range t.Productos {
		for j, cell := range resp.Values[i+1] {
			switch cell.(type) {
			case nil, string:
				continue
			}
			if j >= len(t.Columnas) || t.Columnas[j] == "" {
				continue
			}
			p := &t.Productos[i]
			if p.Tipados == nil {
				p.Tipados = make(map[string]any)
			}
			p.Tipados[t.Columnas[j]] = cell
		}
	}
	return t, nil
}

// ReemplazarTabla overwrites the worksheet from A1 and only then clears
// whatever lies below or right of the new table. A failed write leaves the
// previous contents in place.
func (r *sheetsTablaRepo) ReemplazarTabla(ctx context.Context, t *model.Tabla) error {
	values := sheetValues(t)
	_, err := r.svc.Spreadsheets.Values.Update(r.spreadsheetID, r.rango("A1"), &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return escribirErr(r.explain(err))
	}

	sobrantes, err := r.sobrantes(len(values), len(t.Columnas))
	if err != nil {
		return escribirErr(err)
	}
	_, err = r.svc.Spreadsheets.Values.BatchClear(r.spreadsheetID, &sheets.BatchClearValuesRequest{
		Ranges: sobrantes,
	}).Context(ctx).Do()
	if err != nil {
		return escribirErr(r.explain(err))
	}
	return nil
}

func (r *sheetsTablaRepo) Ping(ctx context.Context) error {
	_, err := r.svc.Spreadsheets.Get(r.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

// rango builds an A1 range on the worksheet. The name is always quoted so
// spaces, '!' and apostrophes are safe.
func (r *sheetsTablaRepo) rango(celdas string) string {
	hoja := "'" + strings.ReplaceAll(r.worksheet, "'", "''") + "'"
	if celdas == "" {
		return hoja
	}
	return hoja + "!" + celdas
}

// sobrantes returns the ranges below the last written row and right of the
// last written column.
func (r *sheetsTablaRepo) sobrantes(filas, columnas int) ([]string, error) {
	ultima, err := excelize.ColumnNumberToName(maxColumnas)
	if err != nil {
		return nil, err
	}
	rangos := []string{r.rango(fmt.Sprintf("A%d:%s", filas+1, ultima))}
	if columnas < maxColumnas {
		desde, err := excelize.ColumnNumberToName(max(1, columnas+1))
		if err != nil {
			return nil, err
		}
		rangos = append(rangos, r.rango(desde+":"+ultima))
	}
	return rangos, nil
}

// maxColumnas is the widest grid Sheets allows.
const maxColumnas = 18278

// sheetValues renders the table with typed cells: Stock as an integer and any
// typed value read earlier that the row still carries unchanged.
func sheetValues(t *model.Tabla) [][]interface{} {
	rows := t.ToRows()
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
			if i == 0 || cell == "" {
				continue
			}
			p := &t.Productos[i-1]
			col := t.Columnas[j]
			if col == model.ColStock {
				values[i][j] = p.Stock
				continue
			}
			if v, ok := p.Tipados[col]; ok && cellString(v) == cell {
				values[i][j] = v
			}
		}
	}
	return values
}

func (r *sheetsTablaRepo) explain(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("no se encontró la hoja de cálculo con el ID %q, verificar que esté compartida con la cuenta de servicio: %w", r.spreadsheetID, err)
	}
	return err
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(x)
	}
}
