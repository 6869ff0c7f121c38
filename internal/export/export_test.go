package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *model.SalesReport {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.SalesReport{
		StartDate:         day,
		EndDate:           day.AddDate(0, 0, 1),
		GeneratedAt:       day,
		GeneratedBy:       "manager",
		TotalRevenue:      150000,
		TotalTransactions: 2,
		TotalItems:        3,
		AverageOrder:      75000,
		Daily: []model.DailySales{
			{Date: "2026-03-01", Transactions: 2, Items: 3, Revenue: 150000},
			{Date: "2026-03-02"},
		},
		TopProducts: []model.ProductSales{{ProductID: uuid.NewString(), Name: "Nasi Goreng", Category: "Food", Quantity: 3, Revenue: 150000}},
		Categories:  []model.CategorySales{{Category: "Food", Quantity: 3, Revenue: 150000}},
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "Rp 0", Money(0))
	assert.Equal(t, "Rp 500", Money(500))
	assert.Equal(t, "Rp 50.000", Money(50000))
	assert.Equal(t, "Rp 1.250.000", Money(1250000))
	assert.Equal(t, "-Rp 1.000", Money(-1000))
}

func TestSalesReportXLSX(t *testing.T) {
	data, err := SalesReportXLSX(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDaily, SheetTopProducts, SheetCategories}, f.GetSheetList())

	rows, err := f.GetRows(SheetDaily)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header, two days, total
	assert.Equal(t, []string{"Date", "Transactions", "Items", "Revenue"}, rows[0])
	assert.Equal(t, "150000", rows[1][3])
	assert.Equal(t, "TOTAL", rows[3][0])

	products, err := f.GetRows(SheetTopProducts)
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng", products[1][0])
}

func TestSalesReportPDF(t *testing.T) {
	data, err := SalesReportPDF("Sajiwa Resto", sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestReceiptPDF(t *testing.T) {
	product := &model.Product{Name: "Es Teh", Price: 5000}
	tx := &model.Transaction{
		TotalAmount:     10000,
		PaymentMethod:   model.PaymentCash,
		Status:          model.StatusCompleted,
		TransactionDate: time.Now(),
		User:            &model.User{Username: "kasir1"},
		Items: []model.TransactionItem{
			{ProductID: uuid.New(), Product: product, Quantity: 2, UnitPrice: 5000, Subtotal: 10000},
		},
	}
	tx.ID = uuid.New()

	data, err := ReceiptPDF("Sajiwa Resto", tx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
