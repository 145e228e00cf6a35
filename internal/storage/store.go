package storage

import (
	"context"
	"time"

	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

// Store defines the interface for storage operations
type Store interface {
	// Profile operations
	GetProfileByPhone(ctx context.Context, phone string) (*models.CustomerProfile, error)
	ListProfiles(ctx context.Context) ([]*models.CustomerProfile, error)
	UpsertProfile(ctx context.Context, profile *models.CustomerProfile) error

	// Sanction operations
	SaveSanction(ctx context.Context, record *models.SanctionRecord) error
	GetSanction(ctx context.Context, loanID string) (*models.SanctionRecord, error)
}

// SessionStore keeps serialized conversation sessions between turns.
// Load returns errors.ErrSessionNotFound for unknown or expired ids.
type SessionStore interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
}
