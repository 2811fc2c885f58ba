package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tsrs-robotics/robolab-backend/pkg/config"
	"github.com/tsrs-robotics/robolab-backend/pkg/db"
	"github.com/tsrs-robotics/robolab-backend/pkg/db/models"
	"github.com/tsrs-robotics/robolab-backend/pkg/enums"
	pkgerrors "github.com/tsrs-robotics/robolab-backend/pkg/errors"
	"github.com/tsrs-robotics/robolab-backend/pkg/logger"
	"github.com/tsrs-robotics/robolab-backend/pkg/security"
)

// maxAvatarBytes caps uploaded avatar size at 1 MiB.
const maxAvatarBytes = 1 << 20

// Service defines account management operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	Get(ctx context.Context, username string) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	ChangePassword(ctx context.Context, username string, input ChangePasswordInput) error
	UpdateProfile(ctx context.Context, username string, input UpdateProfileInput) (*UserDTO, error)
	SetAvatar(ctx context.Context, username string, avatar []byte) error
	GetAvatar(ctx context.Context, username string) ([]byte, error)
	EnsureDefaultAdmin(ctx context.Context, cfg config.BootstrapConfig) error
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService builds a users service with the required dependencies.
func NewService(repo *Repository, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         input.Role,
		EmployeeID:   strings.TrimSpace(input.EmployeeID),
		FullName:     strings.TrimSpace(input.FullName),
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("username %q is taken", username))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, username string) (*UserDTO, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}

	dtos := make([]UserDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, *FromModel(&list[i]))
	}
	return dtos, nil
}

func (s *service) ChangePassword(ctx context.Context, username string, input ChangePasswordInput) error {
	if input.NewPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password is required")
	}
	if input.NewPassword != input.ConfirmPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	user, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}

	valid, err := security.VerifyPassword(input.OldPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, username, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing password")
	}
	return nil
}

func (s *service) UpdateProfile(ctx context.Context, username string, input UpdateProfileInput) (*UserDTO, error) {
	if _, err := s.findUser(ctx, username); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if err := s.repo.UpdateProfile(ctx, username, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating profile")
	}
	return s.Get(ctx, username)
}

func (s *service) SetAvatar(ctx context.Context, username string, avatar []byte) error {
	if len(avatar) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "avatar payload is empty")
	}
	if len(avatar) > maxAvatarBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "avatar exceeds 1 MiB")
	}
	if _, err := s.findUser(ctx, username); err != nil {
		return err
	}
	if err := s.repo.UpdateAvatar(ctx, username, avatar); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing avatar")
	}
	return nil
}

func (s *service) GetAvatar(ctx context.Context, username string) ([]byte, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no avatar set")
	}
	return user.Avatar, nil
}

// EnsureDefaultAdmin seeds the bootstrap admin account when it does not exist yet.
func (s *service) EnsureDefaultAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	_, err := s.repo.FindByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking bootstrap admin")
	}

	hash, err := security.HashPassword(cfg.AdminPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing bootstrap password")
	}

	admin := &models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
		EmployeeID:   cfg.AdminEmployeeID,
		FullName:     cfg.AdminFullName,
	}
	if _, err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seeding bootstrap admin")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "bootstrap admin account created")
	}
	return nil
}

func (s *service) findUser(ctx context.Context, username string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}
