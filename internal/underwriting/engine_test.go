package underwriting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loanverse-backend/internal/affordability"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/models"
)

type fakeProfiles struct {
	profiles map[string]*models.CustomerProfile
	err      error
}

func (f *fakeProfiles) GetProfileByPhone(_ context.Context, phone string) (*models.CustomerProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[phone]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return p, nil
}

func newTestEngine(profiles ...*models.CustomerProfile) *Engine {
	f := &fakeProfiles{profiles: map[string]*models.CustomerProfile{}}
	for _, p := range profiles {
		f.profiles[p.Phone] = p
	}
	return NewEngine(f, affordability.DefaultPolicy())
}

func int64Ptr(v int64) *int64 { return &v }

func TestScoreGatePrecedesInstantApproval(t *testing.T) {
	e := newTestEngine()
	p := models.CustomerProfile{Name: "Low Score", CreditScore: 650, PreApprovedLimit: 300000, MonthlySalary: 100000}

	d := e.EvaluateProfile(p, p.PreApprovedLimit, nil)
	assert.Equal(t, StatusReject, d.Status)
	assert.Equal(t, RuleScoreGate, d.Rule)
	assert.Equal(t, "Credit score of 650 is below our minimum requirement of 700.", d.Reason)
}

func TestInstantApproval(t *testing.T) {
	e := newTestEngine()
	p := models.CustomerProfile{Name: "Rahul Sharma", CreditScore: 780, PreApprovedLimit: 500000, MonthlySalary: 75000}

	d := e.EvaluateProfile(p, 400000, nil)
	assert.Equal(t, StatusApprove, d.Status)
	assert.Equal(t, ApprovalInstant, d.Type)
	assert.Equal(t, 11.5, d.Rate)
	assert.Equal(t, 36, d.TenureMonths)
	assert.Equal(t, affordability.EMI(400000, 36, 11.5), d.EMI)
	assert.InDelta(t, 13191, d.EMI, 2)
	assert.Equal(t, int64(500000), d.MaxEligible)
	assert.Contains(t, d.Reason, "₹400,000")
}

func TestInstantPathDebtTrap(t *testing.T) {
	e := newTestEngine()
	p := models.CustomerProfile{CreditScore: 760, PreApprovedLimit: 500000, MonthlySalary: 60000, CurrentEMIs: 30000}

	d := e.EvaluateProfile(p, 400000, nil)
	assert.Equal(t, StatusReject, d.Status)
	assert.Equal(t, RuleInstant, d.Rule)
	assert.Greater(t, d.DTI, 60.0)
	assert.Contains(t, d.Reason, "₹30,000")
	assert.Contains(t, d.Reason, "60%")
}

func TestConditionalWithoutSalaryNeedsSlip(t *testing.T) {
	e := newTestEngine()
	p := models.CustomerProfile{CreditScore: 705, PreApprovedLimit: 200000, MonthlySalary: 30000, CurrentEMIs: 15000}

	d := e.EvaluateProfile(p, 350000, nil)
	assert.Equal(t, StatusConditional, d.Status)
	assert.Equal(t, NeedSalarySlip, d.Needs)
	assert.Equal(t, int64(400000), d.MaxEligible)
	assert.Contains(t, d.Reason, "salary slip")
}

func TestConditionalThenReject(t *testing.T) {
	e := newTestEngine()
	p := models.CustomerProfile{CreditScore: 705, PreApprovedLimit: 200000, MonthlySalary: 30000, CurrentEMIs: 15000}

	d := e.EvaluateProfile(p, 350000, int64Ptr(30000))
	assert.Equal(t, StatusReject, d.Status)
	assert.Equal(t, RuleConditional, d.Rule)
	assert.Greater(t, d.DTI, 50.0)
	assert.Contains(t, d.Reason, "50% DTI limit")
	assert.Contains(t, d.Reason, "₹30,000")
	assert.Contains(t, d.Reason, "₹15,000")
}

func TestConditionalSalaryVerifiedApproval(t *testing.T) {
	e := newTestEngine()
	p := models.CustomerProfile{CreditScore: 780, PreApprovedLimit: 500000, MonthlySalary: 75000}

	d := e.EvaluateProfile(p, 800000, int64Ptr(120000))
	assert.Equal(t, StatusApprove, d.Status)
	assert.Equal(t, ApprovalSalaryVerified, d.Type)
	assert.Equal(t, int64(800000), d.ApprovedAmount)
	assert.Contains(t, d.Reason, "healthy")
}

func TestHardCap(t *testing.T) {
	e := newTestEngine()
	p := models.CustomerProfile{CreditScore: 750, PreApprovedLimit: 300000, MonthlySalary: 90000}

	d := e.EvaluateProfile(p, 700000, nil)
	assert.Equal(t, StatusReject, d.Status)
	assert.Equal(t, RuleHardCap, d.Rule)
	assert.Equal(t, int64(600000), d.MaxEligible)
	assert.Contains(t, d.Reason, "₹600,000")
}

func TestEvaluateLookupMiss(t *testing.T) {
	e := newTestEngine()
	d, err := e.Evaluate(context.Background(), "9000000000", 100000, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusUserNotFound, d.Status)
	assert.Equal(t, "No pre-approved offer found for this number.", d.Reason)
}

func TestEvaluateStorageFailure(t *testing.T) {
	e := NewEngine(&fakeProfiles{err: errors.New("db down")}, affordability.DefaultPolicy())
	_, err := e.Evaluate(context.Background(), "9000000000", 100000, nil)
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	e := newTestEngine(&models.CustomerProfile{Phone: "9278901234", CreditScore: 780, PreApprovedLimit: 500000, MonthlySalary: 75000})

	s, err := e.Summary(context.Background(), "9278901234", 400000)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED | Score: 780/900 | Type: INSTANT", s)

	s, err = e.Summary(context.Background(), "9278901234", 700000)
	require.NoError(t, err)
	assert.Contains(t, s, "CONDITIONAL")
}

func TestBureauFetch(t *testing.T) {
	f := &fakeProfiles{profiles: map[string]*models.CustomerProfile{
		"9278901234": {Phone: "9278901234", CreditScore: 812},
	}}
	b := NewBureau(f)
	b.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

	r, err := b.Fetch(context.Background(), "9278901234")
	require.NoError(t, err)
	assert.True(t, r.Found)
	assert.Equal(t, 812, r.Score)
	assert.Equal(t, 900, r.MaxScore)
	assert.Equal(t, "CIBIL/20260314/1234", r.Reference)

	r, err = b.Fetch(context.Background(), "9000000000")
	require.NoError(t, err)
	assert.False(t, r.Found)
	assert.Equal(t, "NOT_FOUND", r.Reference)
}
