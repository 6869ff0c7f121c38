package repository

import (
	"bytes"
	"sort"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll(activeOnly bool) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	LockByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error)
	Save(tx *gorm.DB, product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) (bool, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error
	IsReferenced(tx *gorm.DB, id uuid.UUID) (bool, error)
	DeleteInactiveBefore(tx *gorm.DB, before time.Time) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll(activeOnly bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Order("category ASC, name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LockByID reads a product with SELECT ... FOR UPDATE inside tx.
func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LockByIDs locks the given products in ascending id order so that two orders
// touching the same products always acquire row locks in the same sequence.
func (r *productRepo) LockByIDs(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	products := make([]model.Product, 0, len(sorted))
	for _, id := range sorted {
		p, err := r.LockByID(tx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

// DecrementStock subtracts qty only while enough stock remains. It reports
// false (and writes nothing) when the guard fails.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		}).Error
}

func (r *productRepo) IsReferenced(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(&model.TransactionItem{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteInactiveBefore removes inactive products last touched before the cutoff.
// Products still referenced by order lines are kept.
func (r *productRepo) DeleteInactiveBefore(tx *gorm.DB, before time.Time) (int64, error) {
	referenced := tx.Model(&model.TransactionItem{}).Select("product_id")
	res := tx.Where("is_active = ? AND updated_at < ?", false, before).
		Where("id NOT IN (?)", referenced).
		Delete(&model.Product{})
	return res.RowsAffected, res.Error
}
