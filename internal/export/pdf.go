package export

import (
	"fmt"
	"strconv"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorPrimary = &props.Color{Red: 156, Green: 60, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptPDF renders a customer receipt for one transaction. Items are expected
// to have their Product loaded for names.
func ReceiptPDF(restaurant string, t *model.Transaction) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Receipt "+t.ID.String(), true).
		WithAuthor(restaurant, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(16).Add(
		col.New(12).Add(
			text.New(restaurant, props.Text{Style: fontstyle.Bold, Size: 13, Align: align.Center, Color: colorPrimary, Top: 1}),
			text.New(t.TransactionDate.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 9}),
		),
	))
	cashier := "-"
	if t.User != nil {
		cashier = nonEmpty(t.User.FullName, t.User.Username)
	}
	m.AddRows(row.New(6).Add(
		col.New(6).Add(text.New("No: "+shortID(t.ID.String()), props.Text{Size: 8})),
		col.New(6).Add(text.New("Cashier: "+cashier, props.Text{Size: 8, Align: align.Right})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(row.New(6).Add(
		col.New(6).Add(text.New("Item", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(2).Add(text.New("Qty", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center})),
		col.New(4).Add(text.New("Subtotal", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right})),
	))
	for _, it := range t.Items {
		name := it.ProductID.String()
		if it.Product != nil {
			name = it.Product.Name
		}
		m.AddRows(row.New(9).Add(
			col.New(6).Add(
				text.New(name, props.Text{Size: 8}),
				text.New("@ "+Money(it.UnitPrice), props.Text{Size: 7, Color: colorGray, Top: 4}),
			),
			col.New(2).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center})),
			col.New(4).Add(text.New(Money(it.Subtotal), props.Text{Size: 8, Align: align.Right})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(6).Add(text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary})),
		col.New(6).Add(text.New(Money(t.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary})),
	))
	m.AddRows(row.New(6).Add(
		col.New(6).Add(text.New("Payment", props.Text{Size: 8})),
		col.New(6).Add(text.New(string(t.PaymentMethod), props.Text{Size: 8, Align: align.Right})),
	))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New("Thank you for your visit", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 4}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

// SalesReportPDF renders a sales report with summary, daily, product and category tables.
func SalesReportPDF(restaurant string, r *model.SalesReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Sales Report", true).
		WithAuthor(restaurant, true).
		Build()

	m := maroto.New(cfg)

	period := r.StartDate.Format("02/01/2006") + " - " + r.EndDate.Format("02/01/2006")
	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New(restaurant, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Sales Report", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(period, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}),
			text.New("Generated "+r.GeneratedAt.Format("02/01/2006 15:04")+" by "+nonEmpty(r.GeneratedBy, "-"),
				props.Text{Size: 7, Align: align.Right, Top: 9, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(row.New(14).Add(
		summaryCol("Revenue", Money(r.TotalRevenue)),
		summaryCol("Transactions", strconv.Itoa(r.TotalTransactions)),
		summaryCol("Items sold", strconv.Itoa(r.TotalItems)),
		summaryCol("Average order", Money(r.AverageOrder)),
	))

	m.AddRows(sectionTitle("Daily sales"))
	m.AddRows(headerRow([]string{"Date", "Transactions", "Items", "Revenue"}, []int{3, 3, 3, 3}))
	for _, d := range r.Daily {
		m.AddRows(dataRow([]string{d.Date, strconv.Itoa(d.Transactions), strconv.Itoa(d.Items), Money(d.Revenue)}, []int{3, 3, 3, 3}))
	}

	m.AddRows(sectionTitle("Top products"))
	m.AddRows(headerRow([]string{"Product", "Category", "Qty", "Revenue"}, []int{5, 3, 1, 3}))
	for _, p := range r.TopProducts {
		m.AddRows(dataRow([]string{p.Name, nonEmpty(p.Category, "-"), strconv.Itoa(p.Quantity), Money(p.Revenue)}, []int{5, 3, 1, 3}))
	}

	m.AddRows(sectionTitle("Categories"))
	m.AddRows(headerRow([]string{"Category", "Qty", "Revenue"}, []int{6, 3, 3}))
	for _, c := range r.Categories {
		m.AddRows(dataRow([]string{nonEmpty(c.Category, "Uncategorized"), strconv.Itoa(c.Quantity), Money(c.Revenue)}, []int{6, 3, 3}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate sales report: %w", err)
	}
	return doc.GetBytes(), nil
}

func summaryCol(label, value string) core.Col {
	return col.New(3).Add(
		text.New(label, props.Text{Size: 7, Color: colorGray, Top: 2}),
		text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: 7}),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 4}),
	))
}

func headerRow(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 1}))
	}
	return row.New(6).Add(cols...)
}

func dataRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, len(values))
	for i, v := range values {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		cols[i] = col.New(sizes[i]).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1}))
	}
	return row.New(5).Add(cols...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
