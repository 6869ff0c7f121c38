package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/export"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/metrics"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"gorm.io/gorm"
)

const (
	topProductsLimit = 10
	maxReportDays    = 366
	dateLayout       = "2006-01-02"
)

// Export formats for the sales report.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

type ReportService interface {
	SalesReport(identity policy.Identity, start, end time.Time) (*model.SalesReport, error)
	ExportSalesReport(identity policy.Identity, start, end time.Time, format string) (*ExportFile, error)
	Receipt(identity policy.Identity, transaction *model.Transaction) (*ExportFile, error)
	Dashboard(identity policy.Identity) (*repository.DashboardStats, error)
}

// ExportFile is a rendered document ready to be sent as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type reportService struct {
	db         *gorm.DB
	txRepo     repository.TransactionRepository
	auditRepo  repository.AuditRepository
	restaurant string
	metrics    *metrics.Metrics
	log        *logger.Logger
	now        func() time.Time
}

func NewReportService(db *gorm.DB, txRepo repository.TransactionRepository, auditRepo repository.AuditRepository, restaurant string, m *metrics.Metrics, log *logger.Logger) ReportService {
	return &reportService{
		db:         db,
		txRepo:     txRepo,
		auditRepo:  auditRepo,
		restaurant: restaurant,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// normalizeRange turns inclusive calendar days into [start, endExclusive).
// Zero values default to the last seven days.
func (s *reportService) normalizeRange(start, end time.Time) (time.Time, time.Time, error) {
	today := startOfDay(s.now())
	if end.IsZero() {
		end = today
	}
	if start.IsZero() {
		start = startOfDay(end).AddDate(0, 0, -6)
	}
	start, end = startOfDay(start), startOfDay(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if end.Sub(start) > maxReportDays*24*time.Hour {
		return time.Time{}, time.Time{}, apperror.Validation(fmt.Sprintf("Report range cannot exceed %d days", maxReportDays))
	}
	return start, end.AddDate(0, 0, 1), nil
}

func (s *reportService) SalesReport(identity policy.Identity, start, end time.Time) (*model.SalesReport, error) {
	report, err := s.build(identity, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.audit(identity, report, "json"); err != nil {
		return nil, err
	}
	s.metrics.RecordReport("json")
	return report, nil
}

func (s *reportService) ExportSalesReport(identity policy.Identity, start, end time.Time, format string) (*ExportFile, error) {
	if format != FormatPDF && format != FormatXLSX {
		return nil, apperror.Validation("Invalid export format; use pdf or xlsx")
	}
	report, err := s.build(identity, start, end)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("sales-report_%s_%s", report.StartDate.Format(dateLayout), report.EndDate.Format(dateLayout))
	file := &ExportFile{}
	switch format {
	case FormatPDF:
		file.Data, err = export.SalesReportPDF(s.restaurant, report)
		file.Filename = name + ".pdf"
		file.ContentType = "application/pdf"
	case FormatXLSX:
		file.Data, err = export.SalesReportXLSX(report)
		file.Filename = name + ".xlsx"
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		s.log.Error().Err(err).Str("format", format).Msg("report export failed")
		return nil, apperror.Internal("failed to render report", err)
	}

	if err := s.audit(identity, report, format); err != nil {
		return nil, err
	}
	s.metrics.RecordReport(format)
	return file, nil
}

// Receipt renders an already authorized transaction as a PDF.
func (s *reportService) Receipt(identity policy.Identity, transaction *model.Transaction) (*ExportFile, error) {
	if err := policy.Authorize(identity, policy.TransactionView); err != nil {
		return nil, err
	}
	data, err := export.ReceiptPDF(s.restaurant, transaction)
	if err != nil {
		return nil, apperror.Internal("failed to render receipt", err)
	}
	return &ExportFile{
		Filename:    "receipt_" + transaction.ID.String() + ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *reportService) Dashboard(identity policy.Identity) (*repository.DashboardStats, error) {
	if err := policy.Authorize(identity, policy.DashboardView); err != nil {
		return nil, err
	}
	stats, err := s.txRepo.GetDashboardStats(startOfDay(s.now()))
	if err != nil {
		return nil, apperror.Internal("failed to load dashboard stats", err)
	}
	return stats, nil
}

func (s *reportService) audit(identity policy.Identity, report *model.SalesReport, format string) error {
	desc := fmt.Sprintf("Generated sales report (%s) for %s to %s",
		format, report.StartDate.Format(dateLayout), report.EndDate.Format(dateLayout))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditReport,
			Table:       model.TableReport,
			RecordID:    "sales",
			Description: desc,
		})
	})
	if err != nil {
		return apperror.Internal("failed to record report audit", err)
	}
	return nil
}

func (s *reportService) build(identity policy.Identity, start, end time.Time) (*model.SalesReport, error) {
	if err := policy.Authorize(identity, policy.ReportView); err != nil {
		return nil, err
	}
	from, to, err := s.normalizeRange(start, end)
	if err != nil {
		return nil, err
	}
	transactions, err := s.txRepo.FindBetween(from, to)
	if err != nil {
		return nil, apperror.Internal("failed to load transactions", err)
	}

	report := aggregateSales(transactions, from, to)
	report.GeneratedAt = s.now()
	report.GeneratedBy = identity.Username
	return report, nil
}

// aggregateSales groups transactions into daily buckets (every day of the range,
// empty days included), product totals and category totals.
func aggregateSales(transactions []model.Transaction, from, to time.Time) *model.SalesReport {
	report := &model.SalesReport{
		StartDate: from,
		EndDate:   to.AddDate(0, 0, -1),
	}

	dayIndex := make(map[string]int)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		dayIndex[key] = len(report.Daily)
		report.Daily = append(report.Daily, model.DailySales{Date: key})
	}

	products := make(map[string]*model.ProductSales)
	categories := make(map[string]*model.CategorySales)
	payments := make(map[model.PaymentMethod]*model.PaymentSales)

	for _, t := range transactions {
		report.TotalTransactions++
		report.TotalRevenue += t.TotalAmount

		var day *model.DailySales
		if i, ok := dayIndex[t.TransactionDate.In(from.Location()).Format(dateLayout)]; ok {
			day = &report.Daily[i]
			day.Transactions++
			day.Revenue += t.TotalAmount
		}

		ps, ok := payments[t.PaymentMethod]
		if !ok {
			ps = &model.PaymentSales{Method: t.PaymentMethod}
			payments[t.PaymentMethod] = ps
		}
		ps.Transactions++
		ps.Revenue += t.TotalAmount

		for _, it := range t.Items {
			report.TotalItems += it.Quantity
			if day != nil {
				day.Items += it.Quantity
			}

			name, category := it.ProductID.String(), ""
			if it.Product != nil {
				name, category = it.Product.Name, it.Product.Category
			}

			p, ok := products[it.ProductID.String()]
			if !ok {
				p = &model.ProductSales{ProductID: it.ProductID.String(), Name: name, Category: category}
				products[it.ProductID.String()] = p
			}
			p.Quantity += it.Quantity
			p.Revenue += it.Subtotal

			c, ok := categories[category]
			if !ok {
				c = &model.CategorySales{Category: category}
				categories[category] = c
			}
			c.Quantity += it.Quantity
			c.Revenue += it.Subtotal
		}
	}

	if report.TotalTransactions > 0 {
		report.AverageOrder = report.TotalRevenue / int64(report.TotalTransactions)
	}

	report.TopProducts = make([]model.ProductSales, 0, len(products))
	for _, p := range products {
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	if len(report.TopProducts) > topProductsLimit {
		report.TopProducts = report.TopProducts[:topProductsLimit]
	}

	report.Categories = make([]model.CategorySales, 0, len(categories))
	for _, c := range categories {
		report.Categories = append(report.Categories, *c)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		if report.Categories[i].Revenue != report.Categories[j].Revenue {
			return report.Categories[i].Revenue > report.Categories[j].Revenue
		}
		return report.Categories[i].Category < report.Categories[j].Category
	})

	report.PaymentMethods = make([]model.PaymentSales, 0, len(payments))
	for _, p := range payments {
		report.PaymentMethods = append(report.PaymentMethods, *p)
	}
	sort.Slice(report.PaymentMethods, func(i, j int) bool {
		return report.PaymentMethods[i].Method < report.PaymentMethods[j].Method
	})

	return report
}
