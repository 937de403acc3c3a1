package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/config"
	"github.com/mockerhub/registry/pkg/credentials"
	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
)

// Superadmin bootstrap identity.
const (
	superAdminUsername = "admin"
	superAdminEmail    = "admin@mockerhub.local"
)

// Service implements user account operations.
type Service struct {
	users  store.Users
	hasher *credentials.PasswordHasher
	codec  *credentials.TokenCodec
	log    *logrus.Logger
}

// NewService creates a user service.
func NewService(users store.Users, hasher *credentials.PasswordHasher, codec *credentials.TokenCodec, log *logrus.Logger) *Service {
	return &Service{users: users, hasher: hasher, codec: codec, log: log}
}

// Register creates a regular account.
func (s *Service) Register(ctx context.Context, email, username, password string) (*registry.User, error) {
	return s.register(ctx, email, username, password, registry.RoleUser, false)
}

// RegisterAdmin creates an admin account. The password is provisional: the
// account carries must_change_password until its first password change.
func (s *Service) RegisterAdmin(ctx context.Context, email, username, password string) (*registry.User, error) {
	return s.register(ctx, email, username, password, registry.RoleAdmin, true)
}

func (s *Service) register(ctx context.Context, email, username, password string, role registry.Role, mustChange bool) (*registry.User, error) {
	if email == "" {
		return nil, registry.Validation("email must not be empty")
	}
	if username == "" {
		return nil, registry.Validation("username must not be empty")
	}
	if password == "" {
		return nil, registry.Validation("password must not be empty")
	}

	// Friendly pre-checks; the unique indexes are the real guarantee.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, registry.FieldTaken("email")
	} else if !registry.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, registry.FieldTaken("username")
	} else if !registry.IsNotFound(err) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &registry.User{
		Email:              email,
		Username:           username,
		Role:               role,
		HashedPassword:     hashed,
		MustChangePassword: mustChange,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("user registered")
	return user, nil
}

// Login verifies credentials and issues a token. Failures do not reveal
// whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (string, *registry.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if registry.IsNotFound(err) {
			return "", nil, fmt.Errorf("invalid username or password: %w", registry.ErrUnauthenticated)
		}
		return "", nil, err
	}

	if !s.hasher.Check(password, user.HashedPassword) {
		return "", nil, fmt.Errorf("invalid username or password: %w", registry.ErrUnauthenticated)
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")
	return token, user, nil
}

// ChangePassword verifies the old password and replaces it. The new password
// must differ from the old one. A successful change clears the
// must-change-password flag.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Check(oldPassword, user.HashedPassword) {
		return registry.Validation("old password is incorrect")
	}
	if newPassword == "" {
		return registry.Validation("new password must not be empty")
	}
	if newPassword == oldPassword {
		return registry.Validation("new password must differ from the old password")
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hashed, false); err != nil {
		return err
	}

	s.log.WithField("user_id", userID).Info("password changed")
	return nil
}

// GetByID retrieves a user by id.
func (s *Service) GetByID(ctx context.Context, id int64) (*registry.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByUsername retrieves a user by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*registry.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// Bootstrap ensures a superadmin account exists. When seeding, the password
// comes from configuration or is generated, and is written to the configured
// password file so the operator can retrieve it. The account is created with
// must_change_password set.
func (s *Service) Bootstrap(ctx context.Context, cfg config.AuthConfig) error {
	exists, err := s.users.HasSuperAdmin(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for superadmin: %w", err)
	}
	if exists {
		s.log.Debug("superadmin already exists")
		return nil
	}

	password := cfg.SuperAdminPassword
	if password == "" {
		password, err = generatePassword()
		if err != nil {
			return fmt.Errorf("failed to generate superadmin password: %w", err)
		}
	}

	if cfg.SuperAdminPasswordFile != "" {
		if err := os.WriteFile(cfg.SuperAdminPasswordFile, []byte(password), 0o600); err != nil {
			return fmt.Errorf("failed to write superadmin password file: %w", err)
		}
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	user := &registry.User{
		Email:              superAdminEmail,
		Username:           superAdminUsername,
		Role:               registry.RoleSuperAdmin,
		HashedPassword:     hashed,
		MustChangePassword: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("superadmin seeded")
	return nil
}

// generatePassword returns a random hex password.
func generatePassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
