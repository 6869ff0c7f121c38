// Package policy holds the request identity and the operation → role table
// every service consults before running business logic.
package policy

import (
	"fmt"
	"sort"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"

	"github.com/google/uuid"
)

// Identity is the resolved session: who is calling and which roles they hold.
type Identity struct {
	UserID   uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i Identity) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

// IsElevated reports Admin-capable privilege (Admin or Manager).
func (i Identity) IsElevated() bool {
	return model.IsElevated(i.Roles)
}

func (i Identity) IsManager() bool {
	return i.HasRole(model.RoleManager)
}

type Operation string

const (
	ProductView      Operation = "product:view"
	ProductCreate    Operation = "product:create"
	ProductUpdate    Operation = "product:update"
	ProductDelete    Operation = "product:delete"
	TransactionView  Operation = "transaction:view"
	TransactionAll   Operation = "transaction:view_all"
	TransactionPost  Operation = "transaction:create"
	TransactionVoid  Operation = "transaction:cancel"
	UserView         Operation = "user:view"
	UserCreate       Operation = "user:create"
	UserUpdate       Operation = "user:update"
	UserDelete       Operation = "user:delete"
	UserManageTop    Operation = "user:manage_manager"
	AuditView        Operation = "audit:view"
	DataCleanup      Operation = "data:cleanup"
	ReportView       Operation = "report:view"
	DashboardView    Operation = "dashboard:view"
	UploadImage      Operation = "upload:create"
)

var (
	everyone = []string{model.RoleCashier, model.RoleAdmin, model.RoleManager}
	elevated = []string{model.RoleAdmin, model.RoleManager}
	topOnly  = []string{model.RoleManager}
)

// table is the single source of truth for who may do what.
var table = map[Operation][]string{
	ProductView:     everyone,
	ProductCreate:   elevated,
	ProductUpdate:   elevated,
	ProductDelete:   topOnly,
	TransactionView: everyone,
	TransactionAll:  elevated,
	TransactionPost: everyone,
	TransactionVoid: topOnly,
	UserView:        elevated,
	UserCreate:      elevated,
	UserUpdate:      elevated,
	UserDelete:      elevated,
	UserManageTop:   topOnly,
	AuditView:       elevated,
	DataCleanup:     topOnly,
	ReportView:      elevated,
	DashboardView:   elevated,
	UploadImage:     elevated,
}

// RolesFor returns the roles allowed to perform op. Unknown operations allow nobody.
func RolesFor(op Operation) []string {
	return table[op]
}

// Can reports whether the identity may perform op.
func Can(id Identity, op Operation) bool {
	return id.HasAnyRole(table[op]...)
}

// Authorize returns a Forbidden error when the identity may not perform op.
func Authorize(id Identity, op Operation) error {
	if id.UserID == uuid.Nil {
		return apperror.Unauthenticated("Unauthorized")
	}
	if !Can(id, op) {
		return apperror.Forbidden(fmt.Sprintf("Forbidden: '%s' requires one of %v", op, table[op]))
	}
	return nil
}

// OperationsFor lists the operations a single role grants, sorted by name.
func OperationsFor(role string) []Operation {
	var ops []Operation
	for op, roles := range table {
		for _, r := range roles {
			if r == role {
				ops = append(ops, op)
				break
			}
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
