package repository

import (
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindAll(filter TransactionFilter) ([]model.Transaction, int64, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Transaction, error)
	FindBetween(startDate, endDate time.Time) ([]model.Transaction, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
	DeleteBefore(tx *gorm.DB, before time.Time) (int64, error)
	GetDashboardStats(dayStart time.Time) (*DashboardStats, error)
}

// TransactionFilter narrows transaction listings. Zero values mean "no filter".
type TransactionFilter struct {
	UserID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts     int64 `json:"totalProducts"`
	LowStockCount     int64 `json:"lowStockCount"`
	TotalValuation    int64 `json:"totalValuation"`
	TodayTransactions int64 `json:"todayTransactions"`
	TodayRevenue      int64 `json:"todayRevenue"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create inserts the transaction row and then its items.
func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	if err := tx.Omit(clause.Associations).Create(transaction).Error; err != nil {
		return err
	}
	for i := range transaction.Items {
		transaction.Items[i].TransactionID = transaction.ID
	}
	if len(transaction.Items) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&transaction.Items).Error
}

func (r *transactionRepo) FindAll(filter TransactionFilter) ([]model.Transaction, int64, error) {
	q := r.db.Model(&model.Transaction{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.StartDate != nil {
		q = q.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("transaction_date < ?", *filter.EndDate)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	var transactions []model.Transaction
	err := q.Preload("Items.Product").Preload("User").
		Order("transaction_date DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.Preload("Items.Product").Preload("User").First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("transaction_id = ?", id).Find(&transaction.Items).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindBetween loads transactions in [startDate, endDate) with items and products, oldest first.
func (r *transactionRepo) FindBetween(startDate, endDate time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items.Product").
		Where("transaction_date >= ? AND transaction_date < ?", startDate, endDate).
		Order("transaction_date ASC").
		Find(&transactions).Error
	return transactions, err
}

// Delete removes a transaction and its items.
func (r *transactionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("transaction_id = ?", id).Delete(&model.TransactionItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Transaction{}, "id = ?", id).Error
}

// DeleteBefore removes every transaction dated before the cutoff, items first.
func (r *transactionRepo) DeleteBefore(tx *gorm.DB, before time.Time) (int64, error) {
	old := tx.Model(&model.Transaction{}).Select("id").Where("transaction_date < ?", before)
	if err := tx.Where("transaction_id IN (?)", old).Delete(&model.TransactionItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("transaction_date < ?", before).Delete(&model.Transaction{})
	return res.RowsAffected, res.Error
}

func (r *transactionRepo) GetDashboardStats(dayStart time.Time) (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	// Low Stock Count
	if err := r.db.Model(&model.Product{}).
		Where("is_active = ? AND stock < ?", true, model.LowStockThreshold).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// Total Valuation (SUM of stock * price)
	if err := r.db.Model(&model.Product{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(stock * price), 0)").
		Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Transaction{}).
		Where("transaction_date >= ?", dayStart).
		Count(&stats.TodayTransactions).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Transaction{}).
		Where("transaction_date >= ?", dayStart).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TodayRevenue).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
