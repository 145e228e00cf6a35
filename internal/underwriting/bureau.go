package underwriting

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/utils"
)

// CreditReport is the mock bureau response.
type CreditReport struct {
	Found     bool      `json:"found"`
	Score     int       `json:"score,omitempty"`
	MaxScore  int       `json:"max_score"`
	Bureau    string    `json:"bureau"`
	Reference string    `json:"reference"`
	PulledAt  time.Time `json:"pulled_at"`
}

// Bureau serves scores from the customer store in place of a real bureau.
type Bureau struct {
	profiles ProfileLookup
	now      func() time.Time
}

// NewBureau creates a bureau backed by the profile store.
func NewBureau(profiles ProfileLookup) *Bureau {
	return &Bureau{profiles: profiles, now: time.Now}
}

// Fetch pulls the score for a normalized phone number.
func (b *Bureau) Fetch(ctx context.Context, phone string) (CreditReport, error) {
	pulledAt := b.now()
	report := CreditReport{MaxScore: 900, Bureau: "CIBIL Mock", PulledAt: pulledAt}

	profile, err := b.profiles.GetProfileByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			report.Reference = "NOT_FOUND"
			return report, nil
		}
		return CreditReport{}, fmt.Errorf("bureau lookup: %w", err)
	}

	report.Found = true
	report.Score = profile.CreditScore
	report.Reference = utils.BureauReference(phone, pulledAt)
	return report, nil
}
