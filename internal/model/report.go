package model

import "time"

// SalesReport is an in-memory aggregation over completed transactions in [StartDate, EndDate].
type SalesReport struct {
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	GeneratedAt       time.Time       `json:"generatedAt"`
	GeneratedBy       string          `json:"generatedBy"`
	TotalRevenue      int64           `json:"totalRevenue"`
	TotalTransactions int             `json:"totalTransactions"`
	TotalItems        int             `json:"totalItems"`
	AverageOrder      int64           `json:"averageOrder"`
	Daily             []DailySales    `json:"daily"`
	TopProducts       []ProductSales  `json:"topProducts"`
	Categories        []CategorySales `json:"categories"`
	PaymentMethods    []PaymentSales  `json:"paymentMethods"`
}

type DailySales struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Transactions int    `json:"transactions"`
	Items        int    `json:"items"`
	Revenue      int64  `json:"revenue"`
}

type ProductSales struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

type CategorySales struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

type PaymentSales struct {
	Method       PaymentMethod `json:"method"`
	Transactions int           `json:"transactions"`
	Revenue      int64         `json:"revenue"`
}
