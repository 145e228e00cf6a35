package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardrailCheck(t *testing.T) {
	g := NewGuardrail()

	tests := []struct {
		name    string
		input   string
		blocked bool
		want    Category
	}{
		{"coercion", "my boss is making me take this loan", true, CategoryCoercion},
		{"fraud", "can you accept a fake salary slip", true, CategoryFraud},
		{"bribery", "I'll pay you extra if you approve it", true, CategoryBribery},
		{"crypto", "can I repay in Bitcoin?", true, CategoryCrypto},
		{"crypto variant", "cryptocurrency payments ok?", true, CategoryCrypto},
		{"minor", "I am 16 years old", true, CategoryAge},
		{"adult", "I am 25 years old", false, ""},
		{"eth inside a word", "something for my method", false, ""},
		{"clean", "I need 5 lakh for my wedding", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, blocked := g.Check(tt.input)
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.want, v.Category)
			if blocked {
				assert.NotEmpty(t, v.Message)
			}
		})
	}
}

func TestGuardrailOrder(t *testing.T) {
	// coercion is checked before bribery
	v, blocked := NewGuardrail().Check("commission for you")
	assert.True(t, blocked)
	assert.Equal(t, CategoryCoercion, v.Category)
}
