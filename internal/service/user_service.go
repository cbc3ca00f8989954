package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jmilford/taskward/internal/domain"
	"github.com/jmilford/taskward/internal/platform/logger"
	"github.com/jmilford/taskward/internal/service/auth"
	"github.com/jmilford/taskward/internal/store"
)

// RegisterParams carries the inputs for creating an account.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Phone    string
	Region   string
}

// UpdateProfileParams carries the editable profile fields. Every field is
// replaced; the handler sends the current value for fields the user left
// untouched.
type UpdateProfileParams struct {
	Username  string
	Email     string
	Phone     string
	Region    string
	AvatarURL string
}

// UserService provides account registration and profile management.
type UserService interface {
	// Register creates a new account. Returns a ConflictError naming the
	// taken fields when the username, email, or phone is already in use.
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)

	// GetProfile retrieves a user by their ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile replaces the user's profile fields. The user's own
	// current values never count as conflicts.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*domain.User, error)

	// DeleteAccount removes the user and, through the store's cascade,
	// their tasks.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	db *sql.DB,
	log *slog.Logger,
) *UserServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		db:        db,
		logger:    log.With("component", "user_service"),
	}
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(params.Username, params.Email, params.Password, params.Phone, params.Region)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.userStore.FindConflicts(ctx, user.Email, user.Phone, user.Username, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing users: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Fields: conflicts}
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("user registered",
		"user_id", user.ID,
		"username", user.Username)
	return user, nil
}

// GetProfile implements UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// UpdateProfile implements UserService.
func (s *UserServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	params UpdateProfileParams,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	conflicts, err := s.userStore.FindConflicts(ctx, params.Email, params.Phone, params.Username, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing users: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Fields: conflicts}
	}

	user.Username = params.Username
	user.Email = params.Email
	user.Phone = params.Phone
	user.Region = params.Region
	user.AvatarURL = params.AvatarURL

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("profile updated", "user_id", userID)
	return user, nil
}

// DeleteAccount implements UserService.
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.userStore.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("account deleted", "user_id", userID)
	return nil
}
