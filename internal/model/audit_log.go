package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
	AuditLogin  AuditAction = "LOGIN"
	AuditReport AuditAction = "REPORT"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete, AuditLogin, AuditReport:
		return true
	}
	return false
}

// Table names recorded in audit entries.
const (
	TableProduct     = "Product"
	TableTransaction = "Transaction"
	TableUser        = "User"
	TableAuditLog    = "AuditLog"
	TableReport      = "Report"
)

// AuditLog is append-only: who did what to which record, with optional
// before/after JSON snapshots. Only the retention cleanup removes entries.
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
	UserID      uuid.UUID   `gorm:"type:uuid;index" json:"userId"`
	Username    string      `gorm:"type:varchar(100)" json:"username"` // denormalized
	Action      AuditAction `gorm:"type:varchar(20);index;not null" json:"action"`
	TableName   string      `gorm:"type:varchar(50);index;not null" json:"tableName"`
	RecordID    string      `gorm:"type:varchar(64);index" json:"recordId"`
	OldData     string      `gorm:"type:text" json:"oldData,omitempty"`
	NewData     string      `gorm:"type:text" json:"newData,omitempty"`
	Description string      `gorm:"type:varchar(500)" json:"description"`
}
