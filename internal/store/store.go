package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-authgate/secrets/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const defaultOpTimeout = 5 * time.Second

// providerColumns maps identity providers to their unique id column
var providerColumns = map[string]string{
	models.ProviderGoogle:   "google_id",
	models.ProviderFacebook: "facebook_id",
}

type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

// New opens the database, migrates the schema and returns a Store whose
// operations each run under opTimeout.
func New(ctx context.Context, driver, dsn string, opTimeout time.Duration) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// Every sqlite connection to ":memory:" is a separate database and
		// sqlite allows a single writer, so one connection serves both cases.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: ping: %w", ErrStoreUnavailable, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Secret{},
	); err != nil {
		return nil, err
	}

	log.Info().Str("driver", driver).Msg("database ready")

	return newWithDB(db, opTimeout), nil
}

func newWithDB(db *gorm.DB, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Store{db: db, timeout: opTimeout}
}

// conn returns a session bound to ctx with the per-operation deadline applied.
func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// translate maps driver errors onto the package sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	default:
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
}

// User operations

// CreateLocalUser inserts a locally registered user. A login that is already
// taken yields ErrUsernameConflict, including when a concurrent insert wins.
func (s *Store) CreateLocalUser(ctx context.Context, user *models.User) error {
	if user.Login == nil || *user.Login == "" {
		return errors.New("local user requires a login")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	err := db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrUsernameConflict
	}
	return translate("create user", err)
}

// GetUserByLogin finds a locally registered user by login name
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("login = ?", login).First(&user).Error; err != nil {
		return nil, translate("get user by login", err)
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate("get user by id", err)
	}
	return &user, nil
}

// GetUserByProvider finds a user by the id an identity provider assigned
func (s *Store) GetUserByProvider(
	ctx context.Context,
	provider, providerUserID string,
) (*models.User, error) {
	column, ok := providerColumns[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where(column+" = ?", providerUserID).First(&user).Error; err != nil {
		return nil, translate("get user by provider", err)
	}
	return &user, nil
}

// FindOrCreateUserByProvider returns the user linked to providerUserID,
// creating it with displayName when absent. The insert is a single
// INSERT ... ON CONFLICT DO NOTHING on the provider's unique id column, so
// concurrent callbacks for the same id converge on one row. created reports
// whether this call inserted the row.
func (s *Store) FindOrCreateUserByProvider(
	ctx context.Context,
	provider, providerUserID, displayName string,
) (user *models.User, created bool, err error) {
	column, ok := providerColumns[provider]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	if providerUserID == "" {
		return nil, false, errors.New("provider user id is required")
	}

	username := strings.TrimSpace(displayName)
	if username == "" {
		username = providerUserID
	}

	candidate := &models.User{
		ID:       uuid.New().String(),
		Username: username,
	}
	id := providerUserID
	switch provider {
	case models.ProviderGoogle:
		candidate.GoogleID = &id
	case models.ProviderFacebook:
		candidate.FacebookID = &id
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: column}},
		DoNothing: true,
	}).Create(candidate)
	if result.Error != nil {
		return nil, false, translate("upsert provider user", result.Error)
	}

	var existing models.User
	if err := db.Where(column+" = ?", providerUserID).First(&existing).Error; err != nil {
		return nil, false, translate("read provider user", err)
	}
	return &existing, result.RowsAffected == 1, nil
}

// CountUsers returns the number of user rows
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, translate("count users", err)
	}
	return count, nil
}

// Secret operations

func (s *Store) CreateSecret(ctx context.Context, secret *models.Secret) error {
	if secret.ID == "" {
		secret.ID = uuid.New().String()
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	return translate("create secret", db.Create(secret).Error)
}

// ListSecrets returns every secret from every author, newest first
func (s *Store) ListSecrets(ctx context.Context) ([]models.Secret, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var secrets []models.Secret
	if err := db.Order("created_at DESC").Order("id").Find(&secrets).Error; err != nil {
		return nil, translate("list secrets", err)
	}
	return secrets, nil
}

// CountSecrets returns the number of secret rows
func (s *Store) CountSecrets(ctx context.Context) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.Secret{}).Count(&count).Error; err != nil {
		return 0, translate("count secrets", err)
	}
	return count, nil
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueViolation catches unique index errors from drivers that gorm does
// not translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
