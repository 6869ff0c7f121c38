package repository

import (
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindAll() ([]model.User, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.User, error)
	ExistsUsername(tx *gorm.DB, username string, excludeID uuid.UUID) (bool, error)
	Create(tx *gorm.DB, user *model.User) error
	Save(tx *gorm.DB, user *model.User) error
	ReplaceRoles(tx *gorm.DB, user *model.User, roles []model.Role) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	LockActiveElevated(tx *gorm.DB) ([]uuid.UUID, error)
	HasTransactions(tx *gorm.DB, id uuid.UUID) (bool, error)
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
	RecordLogin(tx *gorm.DB, userID uuid.UUID, version string, at time.Time) error
	DeleteInactiveBefore(tx *gorm.DB, before time.Time) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Roles").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Preload("Roles").Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&user).Association("Roles").Find(&user.Roles); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsUsername(tx *gorm.DB, username string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := tx.Model(&model.User{}).Where("username = ?", username)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the user and links the (already seeded) roles.
func (r *userRepo) Create(tx *gorm.DB, user *model.User) error {
	roles := user.Roles
	if err := tx.Omit("Roles").Create(user).Error; err != nil {
		return err
	}
	user.Roles = nil
	return r.ReplaceRoles(tx, user, roles)
}

func (r *userRepo) Save(tx *gorm.DB, user *model.User) error {
	return tx.Omit("Roles").Save(user).Error
}

func (r *userRepo) ReplaceRoles(tx *gorm.DB, user *model.User, roles []model.Role) error {
	return tx.Model(user).Omit("Roles.*").Association("Roles").Replace(roles)
}

// Delete removes role assignments before the user row.
func (r *userRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&model.User{}, "id = ?", id).Error
}

// LockActiveElevated locks and returns the ids of active users holding Admin
// or Manager, so concurrent demotions serialize on the same rows.
func (r *userRepo) LockActiveElevated(tx *gorm.DB) ([]uuid.UUID, error) {
	elevated := tx.Table("user_roles").
		Select("user_roles.user_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.code IN ?", []string{model.RoleAdmin, model.RoleManager})

	var users []model.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("is_active = ? AND id IN (?)", true, elevated).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids, nil
}

func (r *userRepo) HasTransactions(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(&model.Transaction{}).Where("user_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}

func (r *userRepo) RecordLogin(tx *gorm.DB, userID uuid.UUID, version string, at time.Time) error {
	return tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"token_version": version,
		"last_login_at": at,
	}).Error
}

// DeleteInactiveBefore removes inactive users created before the cutoff that
// own no transactions. Role assignments go first.
func (r *userRepo) DeleteInactiveBefore(tx *gorm.DB, before time.Time) (int64, error) {
	var ids []uuid.UUID
	owners := tx.Model(&model.Transaction{}).Select("user_id")
	if err := tx.Model(&model.User{}).
		Where("is_active = ? AND created_at < ?", false, before).
		Where("id NOT IN (?)", owners).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Exec("DELETE FROM user_roles WHERE user_id IN ?", ids).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&model.User{})
	return res.RowsAffected, res.Error
}
