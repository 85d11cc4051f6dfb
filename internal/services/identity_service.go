package services

import (
	"errors"

	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/services/dto"

	"gorm.io/gorm"
)

// Identity is the directory's answer for one user.
type Identity struct {
	UserID             string
	Role               models.UserRole
	VerificationStatus models.VerificationStatus
}

// IdentityDirectory is the read-only view of user roles used by the engine.
type IdentityDirectory interface {
	ResolveRole(db *gorm.DB, userID string) (*Identity, error)
}

// IdentityService serves the local identity mirror.
type IdentityService interface {
	IdentityDirectory
	GetIdentity(db *gorm.DB, userID string) (*dto.IdentityResponse, error)
	UpsertIdentity(db *gorm.DB, userID string, req *dto.UpsertIdentityRequest) (*dto.IdentityResponse, error)
}

type identityService struct {
	store
	userRepo repositories.UserRepository
}

func NewIdentityService(userRepo repositories.UserRepository, opts Options) IdentityService {
	return &identityService{
		store:    store{timeout: opts.QueryTimeout},
		userRepo: userRepo,
	}
}

func (s *identityService) ResolveRole(db *gorm.DB, userID string) (*Identity, error) {
	var user *models.User
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		user, err = s.userRepo.FindByID(db, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Identity{
		UserID:             user.ID,
		Role:               user.Role,
		VerificationStatus: user.VerificationStatus,
	}, nil
}

func (s *identityService) GetIdentity(db *gorm.DB, userID string) (*dto.IdentityResponse, error) {
	var user *models.User
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		user, err = s.userRepo.FindByID(db, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewIdentityResponse(user), nil
}

func (s *identityService) UpsertIdentity(db *gorm.DB, userID string, req *dto.UpsertIdentityRequest) (*dto.IdentityResponse, error) {
	status := req.VerificationStatus
	if status == "" {
		status = models.VerificationPending
	}

	var user *models.User
	err := s.transaction(db, func(tx *gorm.DB) error {
		if err := s.userRepo.Upsert(tx, &models.User{
			ID:                 userID,
			Name:               req.Name,
			Role:               req.Role,
			VerificationStatus: status,
		}); err != nil {
			return err
		}
		var err error
		user, err = s.userRepo.FindByID(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewIdentityResponse(user), nil
}

// requireRole resolves userID and checks it holds role. Unknown identities
// are treated as lacking the role.
func requireRole(dir IdentityDirectory, db *gorm.DB, userID string, role models.UserRole, denied error) error {
	identity, err := dir.ResolveRole(db, userID)
	if errors.Is(err, ErrUserNotFound) {
		return denied
	}
	if err != nil {
		return err
	}
	if identity.Role != role {
		return denied
	}
	return nil
}
