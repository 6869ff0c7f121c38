package service

import (
	"fmt"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/metrics"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"gorm.io/gorm"
)

type CleanupType string

const (
	CleanupTransactions     CleanupType = "transactions"
	CleanupAuditLogs        CleanupType = "auditLogs"
	CleanupInactiveProducts CleanupType = "inactiveProducts"
	CleanupInactiveUsers    CleanupType = "inactiveUsers"
)

type CleanupRequest struct {
	Type       CleanupType `json:"type" validate:"required"`
	BeforeDate time.Time   `json:"beforeDate" validate:"required"`
}

type CleanupResult struct {
	Type         CleanupType `json:"type"`
	BeforeDate   time.Time   `json:"beforeDate"`
	DeletedCount int64       `json:"deletedCount"`
}

// CleanupService performs irreversible retention deletes.
type CleanupService interface {
	Cleanup(identity policy.Identity, req *CleanupRequest) (*CleanupResult, error)
}

type cleanupService struct {
	db          *gorm.DB
	txRepo      repository.TransactionRepository
	auditRepo   repository.AuditRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	metrics     *metrics.Metrics
	log         *logger.Logger
}

func NewCleanupService(db *gorm.DB, txRepo repository.TransactionRepository, auditRepo repository.AuditRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, m *metrics.Metrics, log *logger.Logger) CleanupService {
	return &cleanupService{
		db:          db,
		txRepo:      txRepo,
		auditRepo:   auditRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		metrics:     m,
		log:         log,
	}
}

func (s *cleanupService) Cleanup(identity policy.Identity, req *CleanupRequest) (*CleanupResult, error) {
	if err := policy.Authorize(identity, policy.DataCleanup); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var table string
	var run func(tx *gorm.DB) (int64, error)
	switch req.Type {
	case CleanupTransactions:
		table, run = model.TableTransaction, func(tx *gorm.DB) (int64, error) { return s.txRepo.DeleteBefore(tx, req.BeforeDate) }
	case CleanupAuditLogs:
		table, run = model.TableAuditLog, func(tx *gorm.DB) (int64, error) { return s.auditRepo.DeleteBefore(tx, req.BeforeDate) }
	case CleanupInactiveProducts:
		table, run = model.TableProduct, func(tx *gorm.DB) (int64, error) { return s.productRepo.DeleteInactiveBefore(tx, req.BeforeDate) }
	case CleanupInactiveUsers:
		table, run = model.TableUser, func(tx *gorm.DB) (int64, error) { return s.userRepo.DeleteInactiveBefore(tx, req.BeforeDate) }
	default:
		return nil, ErrInvalidCleanupType
	}

	result := &CleanupResult{Type: req.Type, BeforeDate: req.BeforeDate}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		deleted, err := run(tx)
		if err != nil {
			return err
		}
		result.DeletedCount = deleted

		// The summary entry is written after the delete, so an audit-log cleanup never removes it.
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditDelete,
			Table:       table,
			RecordID:    string(req.Type),
			After:       result,
			Description: fmt.Sprintf("Data cleanup: deleted %d %s before %s", deleted, req.Type, req.BeforeDate.Format("2006-01-02")),
		})
	})
	if err != nil {
		s.log.Error().Err(err).Str("type", string(req.Type)).Msg("data cleanup failed")
		return nil, internalOr(err, "failed to clean up data")
	}

	s.metrics.RecordCleanup(string(req.Type), result.DeletedCount)
	s.log.Warn().
		Str("user_id", identity.UserID.String()).
		Str("type", string(req.Type)).
		Time("before", req.BeforeDate).
		Int64("deleted", result.DeletedCount).
		Msg("data cleanup executed")
	return result, nil
}
