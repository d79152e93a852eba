// Package dataset handles tabular batch input: CSV/XLSX reading and
// writing, schema validation with prefix-based column recognition, and
// batch prediction with per-row failure isolation.
package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// PredictionColumn is appended to batch output tables.
const PredictionColumn = "Pred_qe"

// RequiredColumns must be present in every batch table.
var RequiredColumns = []string{
	preprocessing.SubstanceColumn,
	preprocessing.AtmosphereColumn,
}

// recognizedPrefixes identify the optional parameter columns. A column
// matching none of these (and not required) is warned about and ignored by
// the models.
var recognizedPrefixes = []string{
	"Agent", "Soaking", "Activation", "BET", "Total", "Micropore",
	"Average", "pHpzc", "C_percent", "H_percent", "O_percent",
	"N_percent", "S_percent", "Solution", "Temperature", "Initial",
	"Dosage", "Contact", "Agitation",
}

// Table is an ordered column layout over raw records. Records hold whatever
// the file carried; coercion happens at derivation time.
type Table struct {
	Columns []string
	Rows    []preprocessing.RawRecord
}

// ReadCSV parses a header-first CSV stream into a Table. Cell values stay
// strings; empty cells are omitted from the record.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading CSV header")
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	t := &Table{Columns: columns}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading CSV row")
		}
		row := make(preprocessing.RawRecord, len(columns))
		for i, v := range rec {
			if i >= len(columns) {
				break
			}
			v = strings.TrimSpace(v)
			if v != "" {
				row[columns[i]] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "ReadCSV")
	}
	return t, nil
}

// WriteCSV writes the table with its column order. Missing cells become
// empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return errors.WithStack(err)
	}
	for _, row := range t.Rows {
		out := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			out[i] = cellString(row[col])
		}
		if err := writer.Write(out); err != nil {
			return errors.WithStack(err)
		}
	}
	writer.Flush()
	return errors.WithStack(writer.Error())
}

// WriteXLSX writes the table to one sheet of a new workbook at path.
func (t *Table) WriteXLSX(path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.WithStack(err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.WithStack(err)
	}
	for i, row := range t.Rows {
		out := make([]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			out[j] = row[col]
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &out); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(f.SaveAs(path))
}

// Validate checks the batch contract: required columns present, unrecognized
// columns warned, physically impossible pore volumes warned. Only missing
// required columns are fatal.
func (t *Table) Validate() error {
	logger := log.GetLoggerWithName("dataset")

	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}

	var missing []string
	for _, req := range RequiredColumns {
		if !present[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingRequiredFieldError(missing)
	}

	var unrecognized []string
	for _, c := range t.Columns {
		if isRequired(c) || c == preprocessing.TargetColumn || c == PredictionColumn {
			continue
		}
		if !hasRecognizedPrefix(c) {
			unrecognized = append(unrecognized, c)
		}
	}
	if len(unrecognized) > 0 {
		logger.Warn("ignoring unrecognized columns",
			"columns", strings.Join(unrecognized, ", "))
	}

	t.checkPoreVolumes(logger)
	return nil
}

// checkPoreVolumes flags rows whose micropore volume exceeds the total pore
// volume; the values stay untouched.
func (t *Table) checkPoreVolumes(logger log.Logger) {
	const totalCol = "Total_Pore_Volume(cm3/g)"
	const microCol = "Micropore_Volume(cm3/g)"

	for i, row := range t.Rows {
		total, okT := toFloat(row[totalCol])
		micro, okM := toFloat(row[microCol])
		if okT && okM && micro > total {
			logger.Warn("micropore volume exceeds total pore volume",
				"row", i+1,
				"micropore", micro,
				"total", total)
		}
	}
}

func isRequired(col string) bool {
	for _, r := range RequiredColumns {
		if col == r {
			return true
		}
	}
	return false
}

func hasRecognizedPrefix(col string) bool {
	for _, p := range recognizedPrefixes {
		if strings.HasPrefix(col, p) {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}
