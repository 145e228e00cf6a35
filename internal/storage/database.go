package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

// DatabaseStore is the PostgreSQL implementation of Store
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore wraps an open GORM connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Migrate creates or updates the tables this store needs
func (d *DatabaseStore) Migrate() error {
	return d.db.AutoMigrate(&models.CustomerProfile{}, &models.SanctionRecord{})
}

// SeedIfEmpty loads profiles into an empty customer table. An existing
// table is left untouched.
func (d *DatabaseStore) SeedIfEmpty(ctx context.Context, profiles []*models.CustomerProfile) (int, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&models.CustomerProfile{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewStorageError("count profiles", err)
	}
	if count > 0 {
		return 0, nil
	}
	for _, p := range profiles {
		if err := d.UpsertProfile(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(profiles), nil
}

// Profile operations
func (d *DatabaseStore) GetProfileByPhone(ctx context.Context, phone string) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := d.db.WithContext(ctx).Where("phone = ?", phone).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, apperrors.NewStorageError("get profile", err)
	}
	return &profile, nil
}

func (d *DatabaseStore) ListProfiles(ctx context.Context) ([]*models.CustomerProfile, error) {
	var profiles []*models.CustomerProfile
	if err := d.db.WithContext(ctx).Order("name").Find(&profiles).Error; err != nil {
		return nil, apperrors.NewStorageError("list profiles", err)
	}
	return profiles, nil
}

func (d *DatabaseStore) UpsertProfile(ctx context.Context, profile *models.CustomerProfile) error {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "credit_score", "pre_approved_limit", "monthly_salary", "current_emis",
			"current_loan_details", "employment", "city", "address", "pan", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return apperrors.NewStorageError("upsert profile", err)
	}
	return nil
}

// Sanction operations
func (d *DatabaseStore) SaveSanction(ctx context.Context, record *models.SanctionRecord) error {
	// A loan id repeats when the same customer is sanctioned twice in a day;
	// the latest letter wins.
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "loan_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"session_id", "customer_name", "amount", "rate", "tenure_months", "emi", "total_interest",
			"total_payment", "approval_type", "pre_approved_limit", "issued_at", "valid_until", "document", "content_type",
		}),
	}).Create(record).Error
	if err != nil {
		return apperrors.NewStorageError("save sanction", err)
	}
	return nil
}

func (d *DatabaseStore) GetSanction(ctx context.Context, loanID string) (*models.SanctionRecord, error) {
	var record models.SanctionRecord
	err := d.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrSanctionNotFound
	}
	if err != nil {
		return nil, apperrors.NewStorageError("get sanction", err)
	}
	return &record, nil
}
