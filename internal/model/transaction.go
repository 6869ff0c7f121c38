package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentDebit  PaymentMethod = "DEBIT"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentQRIS   PaymentMethod = "QRIS"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentQRIS:
		return true
	}
	return false
}

type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
)

// Transaction is one completed sale. It is never updated after creation;
// cancellation deletes it together with its items.
type Transaction struct {
	BaseModel
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"userId"`
	User            *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TotalAmount     int64             `gorm:"not null" json:"totalAmount"` // equals the sum of item subtotals
	PaymentMethod   PaymentMethod     `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null" json:"status"`
	TransactionDate time.Time         `gorm:"not null;index" json:"transactionDate"`
	Items           []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// TransactionItem is a single order line. Subtotal is Quantity × UnitPrice at order time.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transactionId"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	UnitPrice     int64     `gorm:"not null" json:"unitPrice"`
	Subtotal      int64     `gorm:"not null" json:"subtotal"`
}

// ItemsTotal sums the line subtotals.
func (t *Transaction) ItemsTotal() int64 {
	var total int64
	for _, it := range t.Items {
		total += it.Subtotal
	}
	return total
}
