package extract

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountPrecedence(t *testing.T) {
	e := NewExtractor(0, 0)

	tests := []struct {
		name   string
		input  string
		want   int64
		rule   string
		wantOK bool
	}{
		{"compound lakh and thousand", "I need 2 lakh 50 thousand", 250000, "compound", true},
		{"hindi word and unit", "paanch lakh chahiye", 500000, "word_unit", true},
		{"fractional hindi word", "dedh lakh", 150000, "word_unit", true},
		{"english word and crore", "two crore please", 10000000, "word_unit", true},
		{"digits with lakh suffix", "5 lakhs", 500000, "digit_unit", true},
		{"decimal lakh", "2.5 lakh for my wedding", 250000, "digit_unit", true},
		{"k suffix", "around 50k", 50000, "digit_unit", true},
		{"crore clamped", "2 crore", 10000000, "digit_unit", true},
		{"one and half lakh", "one and half lakh", 150000, "and_half", true},
		{"one and a half lakh", "one and a half lakh", 150000, "and_half", true},
		{"other number and a half is not guessed", "two and a half lakh", 0, "", false},
		{"currency prefix with commas", "Rs. 3,50,000", 350000, "currency", true},
		{"rupee symbol", "₹450000", 450000, "currency", true},
		{"standalone digits", "500000", 500000, "standalone", true},
		{"idiom default", "bhai paisa chahiye", 500000, "idiom", true},
		{"nothing to parse", "hello there", 0, "", false},
		{"word boundary protects loan", "5 loan", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule, ok := e.AmountWithRule(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestAmountSkipsPhoneNumbers(t *testing.T) {
	e := NewExtractor(0, 0)

	_, ok := e.Amount("9278901234")
	assert.False(t, ok)

	got, ok := e.Amount("my number is 9278901234 and I need 300000")
	assert.True(t, ok)
	assert.Equal(t, int64(300000), got)
}

func TestAmountIdempotence(t *testing.T) {
	e := NewExtractor(0, 0)
	for _, input := range []string{"5 lakhs", "dedh lakh", "Rs 275000", "2 lakh 50 thousand", "3 crore"} {
		first, ok := e.Amount(input)
		assert.True(t, ok, input)

		again, ok := e.Amount(strconv.FormatInt(first, 10))
		assert.True(t, ok, input)
		assert.Equal(t, first, again, input)
	}
}

func TestAmountCeilingIsConfigurable(t *testing.T) {
	e := NewExtractor(2000000, 0)

	got, ok := e.Amount("50 lakh")
	assert.True(t, ok)
	assert.Equal(t, int64(2000000), got)
	assert.Equal(t, int64(2000000), e.MaxAmount())

	got, ok = e.Amount("2000000")
	assert.True(t, ok)
	assert.Equal(t, int64(2000000), got)
}

func TestAmountZeroIsNone(t *testing.T) {
	e := NewExtractor(0, 0)
	_, ok := e.Amount("0 lakh")
	assert.False(t, ok)
}
