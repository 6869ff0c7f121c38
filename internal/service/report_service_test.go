package service

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func (f *fixture) reports() *reportService {
	return NewReportService(f.db, f.txRepo, f.auditRepo, "Warung Uji", nil, f.log).(*reportService)
}

func TestAggregateSales(t *testing.T) {
	loc := time.UTC
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 3)

	nasi := &model.Product{Name: "Nasi", Category: "Food"}
	nasi.ID = uuid.New()
	teh := &model.Product{Name: "Teh", Category: "Drink"}
	teh.ID = uuid.New()

	transactions := []model.Transaction{
		{
			TotalAmount:     60000,
			PaymentMethod:   model.PaymentCash,
			TransactionDate: from.Add(9 * time.Hour),
			Items: []model.TransactionItem{
				{ProductID: nasi.ID, Product: nasi, Quantity: 2, Subtotal: 50000},
				{ProductID: teh.ID, Product: teh, Quantity: 2, Subtotal: 10000},
			},
		},
		{
			TotalAmount:     15000,
			PaymentMethod:   model.PaymentQRIS,
			TransactionDate: from.AddDate(0, 0, 2).Add(20 * time.Hour),
			Items: []model.TransactionItem{
				{ProductID: teh.ID, Product: teh, Quantity: 3, Subtotal: 15000},
			},
		},
	}

	r := aggregateSales(transactions, from, to)

	assert.Equal(t, int64(75000), r.TotalRevenue)
	assert.Equal(t, 2, r.TotalTransactions)
	assert.Equal(t, 7, r.TotalItems)
	assert.Equal(t, int64(37500), r.AverageOrder)
	assert.Equal(t, from.AddDate(0, 0, 2), r.EndDate)

	require.Len(t, r.Daily, 3)
	assert.Equal(t, model.DailySales{Date: "2025-03-01", Transactions: 1, Items: 4, Revenue: 60000}, r.Daily[0])
	assert.Equal(t, model.DailySales{Date: "2025-03-02"}, r.Daily[1])
	assert.Equal(t, model.DailySales{Date: "2025-03-03", Transactions: 1, Items: 3, Revenue: 15000}, r.Daily[2])

	require.Len(t, r.TopProducts, 2)
	assert.Equal(t, "Teh", r.TopProducts[0].Name)
	assert.Equal(t, 5, r.TopProducts[0].Quantity)
	assert.Equal(t, int64(25000), r.TopProducts[0].Revenue)

	require.Len(t, r.Categories, 2)
	assert.Equal(t, "Food", r.Categories[0].Category)

	require.Len(t, r.PaymentMethods, 2)
	assert.Equal(t, model.PaymentCash, r.PaymentMethods[0].Method)
	assert.Equal(t, int64(15000), r.PaymentMethods[1].Revenue)
}

func TestAggregateSales_TopProductsCapped(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var items []model.TransactionItem
	for i := 0; i < topProductsLimit+5; i++ {
		items = append(items, model.TransactionItem{ProductID: uuid.New(), Quantity: i + 1, Subtotal: 1000})
	}
	r := aggregateSales([]model.Transaction{{TransactionDate: from, Items: items}}, from, from.AddDate(0, 0, 1))
	require.Len(t, r.TopProducts, topProductsLimit)
	assert.Equal(t, topProductsLimit+5, r.TopProducts[0].Quantity)
}

func TestNormalizeRange(t *testing.T) {
	s := &reportService{now: func() time.Time { return time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC) }}

	from, to, err := s.normalizeRange(time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), to)

	day := time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)
	from, to, err = s.normalizeRange(day, day)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	_, _, err = s.normalizeRange(day, day.AddDate(0, 0, -1))
	assert.True(t, errors.Is(err, ErrInvalidDateRange))

	_, _, err = s.normalizeRange(day.AddDate(-2, 0, 0), day)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSalesReport_FromStoredOrders(t *testing.T) {
	f := newFixture(t)
	cashier := f.seedUser(t, "kasir", model.RoleCashier)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	product := f.seedProduct(t, "Nasi Goreng", 50000, 5)

	_, err := f.inventory().PostOrder(cashier, &PostOrderRequest{
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	svc := f.reports()
	_, err = svc.SalesReport(cashier, time.Time{}, time.Time{})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	report, err := svc.SalesReport(admin, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), report.TotalRevenue)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.Equal(t, "admin", report.GeneratedBy)
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "Nasi Goreng", report.TopProducts[0].Name)

	assert.Equal(t, int64(1), f.count(t, &model.AuditLog{}, "action = ? AND table_name = ?", model.AuditReport, model.TableReport))
}

func TestExportSalesReport(t *testing.T) {
	f := newFixture(t)
	manager := f.seedUser(t, "boss", model.RoleManager)
	product := f.seedProduct(t, "Sate", 25000, 5)
	f.postOne(t, manager, product.ID)
	svc := f.reports()

	file, err := svc.ExportSalesReport(manager, time.Time{}, time.Time{}, FormatXLSX)
	require.NoError(t, err)
	assert.Contains(t, file.Filename, ".xlsx")
	book, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	assert.Contains(t, book.GetSheetList(), "Daily")

	file, err = svc.ExportSalesReport(manager, time.Time{}, time.Time{}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))

	_, err = svc.ExportSalesReport(manager, time.Time{}, time.Time{}, "csv")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.Equal(t, int64(2), f.count(t, &model.AuditLog{}, "action = ?", model.AuditReport))
}

func TestReceiptAndDashboard(t *testing.T) {
	f := newFixture(t)
	cashier := f.seedUser(t, "kasir", model.RoleCashier)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	product := f.seedProduct(t, "Bakso", 20000, 12)
	hidden := f.seedProduct(t, "Lama", 5000, 4)
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", hidden.ID).Update("is_active", false).Error)
	posted := f.postOne(t, cashier, product.ID)
	svc := f.reports()

	stored, err := f.inventory().GetTransaction(cashier, posted.ID)
	require.NoError(t, err)
	file, err := svc.Receipt(cashier, stored)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))

	_, err = svc.Dashboard(cashier)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	stats, err := svc.Dashboard(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(0), stats.LowStockCount)
	assert.Equal(t, int64(11*20000), stats.TotalValuation)
	assert.Equal(t, int64(1), stats.TodayTransactions)
	assert.Equal(t, int64(20000), stats.TodayRevenue)
}
