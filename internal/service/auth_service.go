package service

import (
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/metrics"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/jwt"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	Logout(identity policy.Identity) error
	Resolve(token string) (policy.Identity, error)
	Me(identity policy.Identity) (*model.UserResponse, error)
	ChangePassword(identity policy.Identity, req *ChangePasswordRequest) error
	SessionTTL() time.Duration
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      model.UserResponse `json:"user"`
}

type authService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	signer    *jwt.Signer
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, auditRepo repository.AuditRepository, signer *jwt.Signer, m *metrics.Metrics, log *logger.Logger) AuthService {
	return &authService{
		db:        db,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		signer:    signer,
		metrics:   m,
		log:       log,
	}
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if isNotFound(err) {
			s.metrics.RecordLogin("invalid")
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal("failed to load user", err)
	}

	if !user.CheckPassword(req.Password) {
		s.metrics.RecordLogin("invalid")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.metrics.RecordLogin("inactive")
		return nil, ErrUserInactive
	}

	// Single session: a new version invalidates tokens issued before this login.
	version := uuid.New().String()
	now := time.Now()
	actor := policy.Identity{UserID: user.ID, Username: user.Username, Roles: user.RoleCodes()}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.RecordLogin(tx, user.ID, version, now); err != nil {
			return err
		}
		return writeAudit(tx, s.auditRepo, actor, auditEntry{
			Action:      model.AuditLogin,
			Table:       model.TableUser,
			RecordID:    user.ID.String(),
			Description: "User " + user.Username + " logged in",
		})
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to record login")
		return nil, apperror.Internal("failed to update session", err)
	}
	user.TokenVersion = version
	user.LastLoginAt = &now

	token, err := s.signer.GenerateToken(user.ID, user.Username, actor.Roles, version)
	if err != nil {
		return nil, apperror.Internal("failed to generate token", err)
	}

	s.metrics.RecordLogin("success")
	s.log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user logged in")
	return &LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(s.signer.TTL()),
		User:      user.ToResponse(),
	}, nil
}

// Logout rotates the token version so the current token stops resolving.
func (s *authService) Logout(identity policy.Identity) error {
	if identity.UserID == uuid.Nil {
		return ErrSessionInvalid
	}
	if err := s.userRepo.UpdateTokenVersion(identity.UserID, uuid.New().String()); err != nil {
		return apperror.Internal("failed to end session", err)
	}
	return nil
}

// Resolve turns a session token into the caller's identity. Roles come from
// the database, not the token, so role changes apply on the next request.
func (s *authService) Resolve(token string) (policy.Identity, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return policy.Identity{}, ErrSessionInvalid
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return policy.Identity{}, ErrSessionInvalid
		}
		return policy.Identity{}, apperror.Internal("failed to load user", err)
	}
	if !user.IsActive {
		return policy.Identity{}, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return policy.Identity{}, ErrSessionReplaced
	}

	return policy.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleCodes(),
	}, nil
}

func (s *authService) Me(identity policy.Identity) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(identity.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) ChangePassword(identity policy.Identity, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(identity.UserID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return apperror.Internal("failed to load user", err)
	}
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperror.Internal("failed to hash password", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		user.UpdatedBy = identity.UserID.String()
		if err := s.userRepo.Save(tx, user); err != nil {
			return err
		}
		return writeAudit(tx, s.auditRepo, identity, auditEntry{
			Action:      model.AuditUpdate,
			Table:       model.TableUser,
			RecordID:    user.ID.String(),
			Description: "User " + user.Username + " changed password",
		})
	})
	if err != nil {
		return apperror.Internal("failed to update password", err)
	}
	return nil
}

func (s *authService) SessionTTL() time.Duration {
	return s.signer.TTL()
}
