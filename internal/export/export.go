package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"trackpay-backend/internal/models"
)

// Header is the fixed column order of every export.
var Header = []string{"Date", "Merchant", "Amount", "Type", "Category", "Account", "UPI Source", "Description"}

const SheetName = "Transactions"

var ErrHeader = errors.New("unexpected csv header")

// Row is one exported transaction. UPISource is empty for non-UPI rails.
type Row struct {
	Date        time.Time
	Merchant    string
	Amount      int64
	Type        models.TransactionType
	Category    string
	Account     string
	UPISource   string
	Description string
}

func (r Row) record() []string {
	return []string{
		r.Date.Format(models.DateLayout),
		r.Merchant,
		strconv.FormatInt(r.Amount, 10),
		string(r.Type),
		r.Category,
		r.Account,
		r.UPISource,
		r.Description,
	}
}

func RowsFrom(txs []models.ClassifiedTransaction) []Row {
	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		src := ""
		if tx.Type == models.TypeUPI {
			src = tx.UPISource.App
		}
		rows = append(rows, Row{
			Date:        tx.Date,
			Merchant:    tx.Merchant,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Category:    tx.Category,
			Account:     tx.BankAccount,
			UPISource:   src,
			Description: tx.Description,
		})
	}
	return rows
}

// WriteCSV writes the header and one record per row. Fields holding commas,
// quotes or newlines are quoted.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV. Columns are located by header
// name, so extra columns are ignored; a leading UTF-8 BOM is tolerated.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(head))
	for i, name := range head {
		name = strings.TrimPrefix(name, "\ufeff")
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range Header {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrHeader, name)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}
		field := func(name string) string {
			i := idx[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := time.Parse(models.DateLayout, field("Date"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q", line, field("Date"))
		}
		amount, err := strconv.ParseInt(field("Amount"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, field("Amount"))
		}
		rows = append(rows, Row{
			Date:        date,
			Merchant:    field("Merchant"),
			Amount:      amount,
			Type:        models.TransactionType(field("Type")),
			Category:    field("Category"),
			Account:     field("Account"),
			UPISource:   field("UPI Source"),
			Description: field("Description"),
		})
	}
	return rows, nil
}

// xlsxColumns sets the sheet column widths, in Header order.
var xlsxColumns = []struct {
	from, to string
	width    float64
}{
	{"A", "A", 12},
	{"B", "B", 24},
	{"C", "C", 12},
	{"D", "F", 16},
	{"G", "G", 14},
	{"H", "H", 36},
}

// WriteXLSX writes the same columns as WriteCSV into a single sheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	setCell := func(col, row int, val any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return fmt.Errorf("cell (%d,%d): %w", col, row, err)
		}
		return f.SetCellValue(SheetName, cell, val)
	}

	for i, h := range Header {
		if err := setCell(i+1, 1, h); err != nil {
			return err
		}
	}
	for n, r := range rows {
		values := r.record()
		for i, v := range values {
			var val any = v
			if i == 2 {
				val = r.Amount
			}
			if err := setCell(i+1, n+2, val); err != nil {
				return err
			}
		}
	}

	for _, c := range xlsxColumns {
		if err := f.SetColWidth(SheetName, c.from, c.to, c.width); err != nil {
			return fmt.Errorf("column width %s:%s: %w", c.from, c.to, err)
		}
	}

	return f.Write(w)
}
