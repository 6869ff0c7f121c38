package repository

import (
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(tx *gorm.DB, entry *model.AuditLog) error
	List(filter AuditFilter) ([]model.AuditLog, int64, error)
	DeleteBefore(tx *gorm.DB, before time.Time) (int64, error)
}

// AuditFilter narrows audit log listings. Zero values mean "no filter".
type AuditFilter struct {
	Page      int
	Limit     int
	TableName string
	Action    model.AuditAction
	UserID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Create(tx *gorm.DB, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return tx.Create(entry).Error
}

func (r *auditRepo) List(filter AuditFilter) ([]model.AuditLog, int64, error) {
	q := r.db.Model(&model.AuditLog{})
	if filter.TableName != "" {
		q = q.Where("table_name = ?", filter.TableName)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at < ?", *filter.EndDate)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var entries []model.AuditLog
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *auditRepo) DeleteBefore(tx *gorm.DB, before time.Time) (int64, error) {
	res := tx.Where("created_at < ?", before).Delete(&model.AuditLog{})
	return res.RowsAffected, res.Error
}
