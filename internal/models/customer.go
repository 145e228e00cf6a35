package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// CustomerProfile is a pre-approved customer record keyed by mobile number.
type CustomerProfile struct {
	ID                 uint           `json:"-" gorm:"primaryKey" yaml:"-"`
	Phone              string         `json:"phone" gorm:"uniqueIndex;size:10" yaml:"phone"` // normalized 10 digits
	Name               string         `json:"name" yaml:"name"`
	CreditScore        int            `json:"credit_score" yaml:"credit_score"`
	PreApprovedLimit   int64          `json:"pre_approved_limit" yaml:"pre_approved_limit"`
	MonthlySalary      int64          `json:"monthly_salary" yaml:"monthly_salary"`
	CurrentEMIs        int64          `json:"current_emis" yaml:"current_emis"`
	CurrentLoanDetails string         `json:"current_loan_details,omitempty" yaml:"current_loan_details"`
	Employment         string         `json:"employment" yaml:"employment"`
	City               string         `json:"city" yaml:"city"`
	Address            string         `json:"address" yaml:"address"`
	PAN                string         `json:"pan" yaml:"pan"`
	CreatedAt          time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt          time.Time      `json:"updated_at" yaml:"-"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index" yaml:"-"`
}

// BeforeCreate normalizes the PAN before the row is written.
func (c *CustomerProfile) BeforeCreate(tx *gorm.DB) error {
	c.PAN = strings.ToUpper(strings.TrimSpace(c.PAN))
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

// MaskedPAN hides all but the last four characters.
func (c *CustomerProfile) MaskedPAN() string {
	if len(c.PAN) <= 4 {
		return c.PAN
	}
	return strings.Repeat("X", len(c.PAN)-4) + c.PAN[len(c.PAN)-4:]
}

// HasSalary reports whether a monthly salary is on file.
func (c *CustomerProfile) HasSalary() bool {
	return c.MonthlySalary > 0
}
