package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SanctionRecord persists a generated sanction letter.
type SanctionRecord struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	LoanID           string    `json:"loan_id" gorm:"uniqueIndex"`
	SessionID        string    `json:"session_id" gorm:"index"`
	Phone            string    `json:"phone" gorm:"index"`
	CustomerName     string    `json:"customer_name"`
	Amount           int64     `json:"amount"`
	Rate             float64   `json:"rate"`
	TenureMonths     int       `json:"tenure_months"`
	EMI              int64     `json:"emi"`
	TotalInterest    int64     `json:"total_interest"`
	TotalPayment     int64     `json:"total_payment"`
	ApprovalType     string    `json:"approval_type"`
	PreApprovedLimit int64     `json:"pre_approved_limit"`
	IssuedAt         time.Time `json:"issued_at"`
	ValidUntil       time.Time `json:"valid_until"`
	Document         []byte    `json:"-"`
	ContentType      string    `json:"content_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// BeforeCreate assigns the record id.
func (s *SanctionRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.LoanID == "" {
		return fmt.Errorf("sanction record requires a loan id")
	}
	return nil
}

// Expired reports whether the sanction is past its validity date.
func (s *SanctionRecord) Expired(now time.Time) bool {
	return now.After(s.ValidUntil)
}
