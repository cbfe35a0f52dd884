package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-composer/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := decimal.FromString(" 123.45 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123.45")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"integer", "2", "2"},
		{"fraction", "10.50", "10.5"},
		{"negative", "-1", "-1"},
		{"padded", "  7 ", "7"},
		{"empty", "", "0"},
		{"blank", "   ", "0"},
		{"text", "abc", "0"},
		{"trailing garbage", "12abc", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decimal.Parse(tt.input)
			assert.True(t, got.Equal(dec.RequireFromString(tt.expected)),
				"input=%q: got %s, want %s", tt.input, got.String(), tt.expected)
		})
	}
}

func TestPercent(t *testing.T) {
	result := decimal.Percent(dec.NewFromInt(22), dec.NewFromInt(50))
	assert.True(t, result.Equal(dec.NewFromInt(11)))

	result = decimal.Percent(dec.NewFromInt(20), dec.RequireFromString("7.5"))
	assert.True(t, result.Equal(dec.RequireFromString("1.5")))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.NewFromInt(200),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.NewFromInt(600)))
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}

func TestIsNegative(t *testing.T) {
	assert.True(t, decimal.IsNegative(dec.NewFromInt(-1)))
	assert.False(t, decimal.IsNegative(dec.Zero))
	assert.False(t, decimal.IsNegative(dec.NewFromInt(1)))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$20.00", decimal.Money("$", dec.NewFromInt(20)))
	assert.Equal(t, "€0.10", decimal.Money("€", dec.RequireFromString("0.1")))
	assert.Equal(t, "KSh3.34", decimal.Money("KSh", dec.RequireFromString("3.335")))
}

func TestPercentLabel(t *testing.T) {
	assert.Equal(t, "10%", decimal.PercentLabel(dec.NewFromInt(10)))
	assert.Equal(t, "8%", decimal.PercentLabel(dec.RequireFromString("7.5")))
	assert.Equal(t, "0%", decimal.PercentLabel(dec.Zero))
}
