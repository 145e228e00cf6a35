package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPurpose(t *testing.T) {
	tests := []struct {
		input string
		want  Purpose
	}{
		{"my sister's shaadi is next month", PurposeWedding},
		{"college fees", PurposeEducation},
		{"medical emergency at home", PurposeMedical},
		{"want to renovate the kitchen, home renovation", PurposeHome},
		{"consolidate my credit card debt", PurposeDebtConsolidation},
		{"new bike", PurposeVehicle},
		{"it's urgent", PurposeEmergency},
		{"a career change", PurposeUnspecified},
		{"just because", PurposeUnspecified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractPurpose(tt.input), tt.input)
	}
	assert.Equal(t, "Home Renovation", PurposeHome.Label())
}

func TestName(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"Hi, I am rahul sharma", "Rahul Sharma", true},
		{"my name is Priya", "Priya", true},
		{"I'm Amit Kumar Verma and I need 5 lakh", "Amit Kumar", true},
		{"Mera naam Sunita hai", "Sunita", true},
		{"hello! need 5 lakhs for wedding", "", false},
		{"12345", "", false},
	}
	for _, tt := range tests {
		got, ok := Name(tt.input)
		assert.Equal(t, tt.wantOK, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestTenure(t *testing.T) {
	n, ok := Tenure("can I do 48 months?")
	assert.True(t, ok)
	assert.Equal(t, 48, n)

	n, ok = Tenure("make it 4 years")
	assert.True(t, ok)
	assert.Equal(t, 48, n)

	_, ok = Tenure("option 2")
	assert.False(t, ok)
}

func TestOption(t *testing.T) {
	n, ok := Option("I'll go with option 2")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = Option("the third one")
	assert.True(t, ok)
	assert.Equal(t, 1, n, "first keyword in precedence wins")

	_, ok = Option("not sure yet")
	assert.False(t, ok)
}

func TestSalary(t *testing.T) {
	n, ok := Salary("I earn 75k a month")
	assert.True(t, ok)
	assert.Equal(t, int64(75000), n)

	n, ok = Salary("my salary is 1,20,000")
	assert.True(t, ok)
	assert.Equal(t, int64(120000), n)

	_, ok = Salary("no idea")
	assert.False(t, ok)
}

func TestWordSet(t *testing.T) {
	set := NewWordSet("no", "go ahead")
	assert.True(t, set.Match("No, wait"))
	assert.True(t, set.Match("ok go ahead"))
	assert.False(t, set.Match("I know now"))
}
