package service

import (
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"

	"github.com/google/uuid"
)

type AuditService interface {
	List(identity policy.Identity, query AuditQuery) (*AuditPage, error)
}

type AuditQuery struct {
	Page      int
	Limit     int
	TableName string
	Action    string
	UserID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

type AuditPage struct {
	Data       []model.AuditLog `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int64            `json:"totalPages"`
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) List(identity policy.Identity, query AuditQuery) (*AuditPage, error) {
	if err := policy.Authorize(identity, policy.AuditView); err != nil {
		return nil, err
	}
	action := model.AuditAction(query.Action)
	if action != "" && !action.Valid() {
		return nil, apperror.Validation("Invalid audit action")
	}
	if query.StartDate != nil && query.EndDate != nil && !query.StartDate.Before(*query.EndDate) {
		return nil, ErrInvalidDateRange
	}

	entries, total, err := s.auditRepo.List(repository.AuditFilter{
		Page:      query.Page,
		Limit:     query.Limit,
		TableName: query.TableName,
		Action:    action,
		UserID:    query.UserID,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
	})
	if err != nil {
		return nil, apperror.Internal("failed to load audit logs", err)
	}

	page, limit := pageOf(query.Page, query.Limit)
	return &AuditPage{
		Data:       entries,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}
