package service

import (
	"encoding/json"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"

	"gorm.io/gorm"
)

// auditEntry describes one audit row. Before/After are serialized to JSON when set.
type auditEntry struct {
	Action      model.AuditAction
	Table       string
	RecordID    string
	Before      interface{}
	After       interface{}
	Description string
}

// writeAudit appends an audit row inside tx so it commits or rolls back with the change it describes.
func writeAudit(tx *gorm.DB, repo repository.AuditRepository, actor policy.Identity, e auditEntry) error {
	entry := &model.AuditLog{
		UserID:      actor.UserID,
		Username:    actor.Username,
		Action:      e.Action,
		TableName:   e.Table,
		RecordID:    e.RecordID,
		Description: e.Description,
	}
	if e.Before != nil {
		b, err := json.Marshal(e.Before)
		if err != nil {
			return apperror.Internal("failed to encode audit snapshot", err)
		}
		entry.OldData = string(b)
	}
	if e.After != nil {
		b, err := json.Marshal(e.After)
		if err != nil {
			return apperror.Internal("failed to encode audit snapshot", err)
		}
		entry.NewData = string(b)
	}
	return repo.Create(tx, entry)
}
