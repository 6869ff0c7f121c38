package server

import (
	"errors"
	"fmt"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/config"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.AuditLog{},
	)
}

// Seed inserts the fixed roles and, when no user exists yet, a bootstrap manager.
func Seed(db *gorm.DB, cfg config.SeedConfig, log *logger.Logger) error {
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := roleRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	var users int64
	if err := db.Model(&model.User{}).Count(&users).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return nil
	}
	if cfg.ManagerPassword == "" {
		return errors.New("no users exist and SEED_MANAGER_PASSWORD is empty")
	}

	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err != nil {
		return fmt.Errorf("load manager role: %w", err)
	}
	manager := &model.User{
		Username: cfg.ManagerUsername,
		FullName: "Restaurant Manager",
		IsActive: true,
		Roles:    []model.Role{*managerRole},
	}
	manager.CreatedBy = "system"
	manager.UpdatedBy = "system"
	if err := manager.SetPassword(cfg.ManagerPassword); err != nil {
		return fmt.Errorf("hash manager password: %w", err)
	}
	if err := userRepo.Create(db, manager); err != nil {
		return fmt.Errorf("create manager: %w", err)
	}

	log.Info().Str("username", manager.Username).Msg("bootstrap manager account created")
	return nil
}
