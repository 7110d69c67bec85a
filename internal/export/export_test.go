package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trackpay-backend/internal/models"
	"trackpay-backend/internal/services/classifier"
)

func sampleRows() []Row {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	return []Row{
		{
			Date: day(15), Merchant: "Big Bazaar", Amount: -1200, Type: models.TypeUPI,
			Category: "Groceries", Account: "HDFC Bank", UPISource: "Google Pay",
			Description: "Payment to Big Bazaar",
		},
		{
			Date: day(14), Merchant: "Acme, Inc.", Amount: 5000, Type: models.TypeBankTransfer,
			Category: "Income", Account: "SBI", Description: `Bonus "Q4", paid` + "\nsecond line",
		},
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Date,Merchant,Amount,Type,Category,Account,UPI Source,Description\n", buf.String())
}

func TestWriteCSV_Quoting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	out := buf.String()
	assert.Contains(t, out, "2025-01-15,Big Bazaar,-1200,UPI,Groceries,HDFC Bank,Google Pay,Payment to Big Bazaar\n")
	assert.Contains(t, out, `"Acme, Inc."`)
	assert.Contains(t, out, `"Bonus ""Q4"", paid`)
}

func TestCSVRoundTrip(t *testing.T) {
	rows := sampleRows()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr string
	}{
		{
			name:    "bom and reordered columns",
			input:   "\ufeffMerchant,Date,Amount,Type,Category,Account,UPI Source,Description,Extra\nSwiggy,2025-01-10,-450,Wallet,Food,SBI,,Dinner,x\n",
			wantLen: 1,
		},
		{
			name:    "blank lines skipped",
			input:   strings.Join(Header, ",") + "\n,,,,,,,\n",
			wantLen: 0,
		},
		{
			name:    "missing column",
			input:   "Date,Merchant,Amount\n2025-01-10,Swiggy,-450\n",
			wantErr: "missing column",
		},
		{
			name:    "bad amount",
			input:   strings.Join(Header, ",") + "\n2025-01-10,Swiggy,abc,Wallet,Food,SBI,,Dinner\n",
			wantErr: "invalid amount",
		},
		{
			name:    "bad date",
			input:   strings.Join(Header, ",") + "\n10/01/2025,Swiggy,-450,Wallet,Food,SBI,,Dinner\n",
			wantErr: "invalid date",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "read header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantLen)
		})
	}
}

func TestRowsFrom(t *testing.T) {
	upi := models.Transaction{
		ID: "1", Date: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Amount: -300,
		Type: models.TypeUPI, Status: models.StatusSuccess, Merchant: "Zomato",
		Category: "Food", BankAccount: "HDFC Bank", UPIVirtualAddress: "food@paytm",
	}
	card := upi
	card.ID = "2"
	card.Type = models.TypeCreditCard
	card.UPIVirtualAddress = ""

	rows := RowsFrom(classifier.AnnotateAll([]models.Transaction{upi, card}))
	require.Len(t, rows, 2)
	assert.Equal(t, "Paytm", rows[0].UPISource)
	assert.Equal(t, "HDFC Bank", rows[0].Account)
	assert.Empty(t, rows[1].UPISource)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	grid, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, grid, 3)
	assert.Equal(t, Header, grid[0])
	assert.Equal(t, "Big Bazaar", grid[1][1])
	assert.Equal(t, "-1200", grid[1][2])
	assert.Equal(t, "Acme, Inc.", grid[2][1])

	widths := []struct {
		col  string
		want float64
	}{
		{"A", 12},
		{"B", 24},
		{"E", 16},
		{"H", 36},
	}
	for _, w := range widths {
		got, err := f.GetColWidth(SheetName, w.col)
		require.NoError(t, err)
		assert.Equal(t, w.want, got, "column %s", w.col)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteXLSX_WriterError(t *testing.T) {
	err := WriteXLSX(failingWriter{}, sampleRows())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
