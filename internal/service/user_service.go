package service

import (
	"fmt"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserHasTransactions = apperror.Conflict("User has recorded transactions; deactivate the account instead")

type UserService interface {
	CreateUser(identity policy.Identity, req *CreateUserRequest) (*model.UserResponse, error)
	UpdateUser(identity policy.Identity, userID uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error)
	DeleteUser(identity policy.Identity, userID uuid.UUID) error
	GetAllUsers(identity policy.Identity) ([]model.UserResponse, error)
	GetUserByID(identity policy.Identity, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,notblank,min=3,max=100"`
	Password string   `json:"password" validate:"required,min=6,max=72"`
	FullName string   `json:"fullName" validate:"max=255"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=MANAGER ADMIN CASHIER"`
	IsActive *bool    `json:"isActive"`
}

type UpdateUserRequest struct {
	Username string   `json:"username" validate:"required,notblank,min=3,max=100"`
	Password *string  `json:"password,omitempty" validate:"omitempty,min=6,max=72"` // Optional
	FullName string   `json:"fullName" validate:"max=255"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=MANAGER ADMIN CASHIER"`
	IsActive *bool    `json:"isActive"`
}

type userService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditRepository
	log       *logger.Logger
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository, roleRepo repository.RoleRepository, auditRepo repository.AuditRepository, log *logger.Logger) UserService {
	return &userService{
		db:        db,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

func hasManager(codes []string) bool {
	for _, c := range codes {
		if c == model.RoleManager {
			return true
		}
	}
	return false
}

// resolveRoles maps role codes onto seeded rows; unknown codes are rejected.
func (s *userService) resolveRoles(tx *gorm.DB, codes []string) ([]model.Role, error) {
	if len(codes) == 0 {
		return nil, ErrRoleRequired
	}
	unique := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		if !model.ValidRoleCode(c) {
			return nil, ErrInvalidRole
		}
		if !seen[c] {
			seen[c] = true
			unique = append(unique, c)
		}
	}
	roles, err := s.roleRepo.FindByCodes(tx, unique)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(unique) {
		return nil, ErrInvalidRole
	}
	return roles, nil
}

// ensureElevatedRemains rejects a change that would leave no active Admin/Manager.
func (s *userService) ensureElevatedRemains(tx *gorm.DB, target uuid.UUID) error {
	ids, err := s.userRepo.LockActiveElevated(tx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id != target {
			return nil
		}
	}
	return ErrLastElevatedUser
}

func (s *userService) CreateUser(identity policy.Identity, req *CreateUserRequest) (*model.UserResponse, error) {
	if err := policy.Authorize(identity, policy.UserCreate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if hasManager(req.Roles) && !policy.Can(identity, policy.UserManageTop) {
		return nil, ErrManagerProtected
	}

	user := &model.User{
		Username: req.Username,
		FullName: req.FullName,
	}
	active := req.IsActive == nil || *req.IsActive
	user.IsActive = active
	user.CreatedBy = identity.UserID.String()
	user.UpdatedBy = identity.UserID.String()
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.ExistsUsername(tx, req.Username, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameExists
		}
		roles, err := s.resolveRoles(tx, req.Roles)
		if err != nil {
			return err
		}
		user.Roles = roles
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		if !active {
			if err := tx.Model(user).Update("is_active", false).Error; err != nil {
				return err
			}
			user.IsActive = false
		}
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditCreate,
			Table:       model.TableUser,
			RecordID:    user.ID.String(),
			After:       user.ToResponse(),
			Description: fmt.Sprintf("Created user '%s'", user.Username),
		})
	})
	if err != nil {
		return nil, internalOr(err, "failed to create user")
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(identity policy.Identity, userID uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error) {
	if err := policy.Authorize(identity, policy.UserUpdate); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	topAllowed := policy.Can(identity, policy.UserManageTop)
	if hasManager(req.Roles) && !topAllowed {
		return nil, ErrManagerProtected
	}

	var user *model.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.userRepo.LockByID(tx, userID)
		if err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if user.HasRole(model.RoleManager) && !topAllowed {
			return ErrManagerProtected
		}
		before := user.ToResponse()

		if req.Username != user.Username {
			exists, err := s.userRepo.ExistsUsername(tx, req.Username, user.ID)
			if err != nil {
				return err
			}
			if exists {
				return ErrUsernameExists
			}
		}
		roles, err := s.resolveRoles(tx, req.Roles)
		if err != nil {
			return err
		}

		wasElevated := user.IsActive && model.IsElevated(user.RoleCodes())
		active := user.IsActive
		if req.IsActive != nil {
			active = *req.IsActive
		}
		if wasElevated && !(active && model.IsElevated(req.Roles)) {
			if err := s.ensureElevatedRemains(tx, user.ID); err != nil {
				return err
			}
		}

		user.Username = req.Username
		user.FullName = req.FullName
		user.IsActive = active
		user.UpdatedBy = identity.UserID.String()
		if req.Password != nil && *req.Password != "" {
			if err := user.SetPassword(*req.Password); err != nil {
				return apperror.Internal("failed to hash password", err)
			}
		}
		if err := s.userRepo.Save(tx, user); err != nil {
			return err
		}
		if err := s.userRepo.ReplaceRoles(tx, user, roles); err != nil {
			return err
		}
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditUpdate,
			Table:       model.TableUser,
			RecordID:    user.ID.String(),
			Before:      before,
			After:       user.ToResponse(),
			Description: fmt.Sprintf("Updated user '%s'", user.Username),
		})
	})
	if err != nil {
		return nil, internalOr(err, "failed to update user")
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(identity policy.Identity, userID uuid.UUID) error {
	if err := policy.Authorize(identity, policy.UserDelete); err != nil {
		return err
	}
	if userID == identity.UserID {
		return ErrSelfDelete
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.LockByID(tx, userID)
		if err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if user.HasRole(model.RoleManager) && !policy.Can(identity, policy.UserManageTop) {
			return ErrManagerProtected
		}
		if user.IsActive && model.IsElevated(user.RoleCodes()) {
			if err := s.ensureElevatedRemains(tx, user.ID); err != nil {
				return err
			}
		}
		owns, err := s.userRepo.HasTransactions(tx, user.ID)
		if err != nil {
			return err
		}
		if owns {
			return ErrUserHasTransactions
		}

		if err := s.userRepo.Delete(tx, user.ID); err != nil {
			return err
		}
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditDelete,
			Table:       model.TableUser,
			RecordID:    user.ID.String(),
			Before:      user.ToResponse(),
			Description: fmt.Sprintf("Deleted user '%s'", user.Username),
		})
	})
	if err != nil {
		return internalOr(err, "failed to delete user")
	}
	return nil
}

func (s *userService) GetAllUsers(identity policy.Identity) ([]model.UserResponse, error) {
	if err := policy.Authorize(identity, policy.UserView); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperror.Internal("failed to load users", err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(identity policy.Identity, id uuid.UUID) (*model.UserResponse, error) {
	if err := policy.Authorize(identity, policy.UserView); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	response := user.ToResponse()
	return &response, nil
}
