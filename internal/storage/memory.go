package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

// MemoryStore holds profiles and sanctions in memory for local runs and tests
type MemoryStore struct {
	profiles  map[string]*models.CustomerProfile
	sanctions map[string]*models.SanctionRecord

	// Mutexes for thread safety
	profileMu  sync.RWMutex
	sanctionMu sync.RWMutex
}

// NewMemoryStore creates an empty in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:  make(map[string]*models.CustomerProfile),
		sanctions: make(map[string]*models.SanctionRecord),
	}
}

// NewSeededMemoryStore creates an in-memory storage holding the bundled
// customer profiles.
func NewSeededMemoryStore() (*MemoryStore, error) {
	profiles, err := SeedProfiles()
	if err != nil {
		return nil, err
	}
	m := NewMemoryStore()
	for _, p := range profiles {
		if err := m.UpsertProfile(context.Background(), p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Profile operations
func (m *MemoryStore) GetProfileByPhone(_ context.Context, phone string) (*models.CustomerProfile, error) {
	m.profileMu.RLock()
	defer m.profileMu.RUnlock()

	profile, exists := m.profiles[phone]
	if !exists {
		return nil, apperrors.ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}

func (m *MemoryStore) ListProfiles(_ context.Context) ([]*models.CustomerProfile, error) {
	m.profileMu.RLock()
	defer m.profileMu.RUnlock()

	profiles := make([]*models.CustomerProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		cp := *p
		profiles = append(profiles, &cp)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

func (m *MemoryStore) UpsertProfile(_ context.Context, profile *models.CustomerProfile) error {
	m.profileMu.Lock()
	defer m.profileMu.Unlock()

	cp := *profile
	if err := cp.BeforeCreate(nil); err != nil {
		return err
	}
	now := time.Now()
	if existing, ok := m.profiles[cp.Phone]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	m.profiles[cp.Phone] = &cp
	return nil
}

// Sanction operations
func (m *MemoryStore) SaveSanction(_ context.Context, record *models.SanctionRecord) error {
	m.sanctionMu.Lock()
	defer m.sanctionMu.Unlock()

	if err := record.BeforeCreate(nil); err != nil {
		return err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	cp := *record
	m.sanctions[cp.LoanID] = &cp
	return nil
}

func (m *MemoryStore) GetSanction(_ context.Context, loanID string) (*models.SanctionRecord, error) {
	m.sanctionMu.RLock()
	defer m.sanctionMu.RUnlock()

	record, exists := m.sanctions[loanID]
	if !exists {
		return nil, apperrors.ErrSanctionNotFound
	}
	cp := *record
	return &cp, nil
}
