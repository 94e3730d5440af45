package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), IDR)
		require.NoError(t, err)
		assert.Equal(t, IDR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", IDR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", IDR)
		assert.Error(t, err)
	})
}

func TestNewMoneyIDR(t *testing.T) {
	m := NewMoneyIDR(decimal.NewFromInt(50000))
	assert.Equal(t, IDR, m.Currency())
	assert.Equal(t, int64(50000), m.Amount().IntPart())
}

func TestZeroIDR(t *testing.T) {
	m := ZeroIDR()
	assert.True(t, m.IsZero())
	assert.Equal(t, IDR, m.Currency())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"numeric string", "25000.50", "25000.5"},
		{"integer", 100, "100"},
		{"int64", int64(250), "250"},
		{"float", 99.99, "99.99"},
		{"decimal passthrough", decimal.NewFromInt(42), "42"},
		{"string with whitespace", " 750 ", "750"},
		{"nil coerces to zero", nil, "0"},
		{"empty string coerces to zero", "", "0"},
		{"garbage coerces to zero", "abc", "0"},
		{"unsupported type coerces to zero", []int{1}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		m1 := NewMoneyIDRFromFloat(100.50)
		m2 := NewMoneyIDRFromFloat(50.25)
		result, err := m1.Add(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(150.75)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoney(decimal.NewFromInt(100), IDR)
		m2, _ := NewMoney(decimal.NewFromInt(50), USD)
		_, err := m1.Add(m2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "different currencies")
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		m1 := NewMoneyIDRFromFloat(100)
		m2 := NewMoneyIDRFromFloat(30)
		result, err := m1.Subtract(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromInt(70)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoney(decimal.NewFromInt(100), IDR)
		m2, _ := NewMoney(decimal.NewFromInt(50), EUR)
		_, err := m1.Subtract(m2)
		assert.Error(t, err)
	})
}

func TestMoneyClampZero(t *testing.T) {
	t.Run("negative amount floors at zero", func(t *testing.T) {
		m := NewMoneyIDRFromFloat(-25)
		assert.True(t, m.ClampZero().IsZero())
	})

	t.Run("positive amount is unchanged", func(t *testing.T) {
		m := NewMoneyIDRFromFloat(25)
		assert.True(t, m.ClampZero().Equals(m))
	})

	t.Run("zero is unchanged", func(t *testing.T) {
		assert.True(t, ZeroIDR().ClampZero().IsZero())
	})
}

func TestMoneyComparisons(t *testing.T) {
	m1 := NewMoneyIDRFromFloat(100)
	m2 := NewMoneyIDRFromFloat(50)

	gt, err := m1.GreaterThan(m2)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := m2.LessThan(m1)
	require.NoError(t, err)
	assert.True(t, lt)

	usd, _ := NewMoney(decimal.NewFromInt(100), USD)
	_, err = m1.GreaterThan(usd)
	assert.Error(t, err)
}

func TestMoneyFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"groups thousands", 1250000, "IDR 1,250,000.00"},
		{"small amount", 500, "IDR 500.00"},
		{"negative amount", -75000, "IDR -75,000.00"},
		{"fractional", 1234.56, "IDR 1,234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoneyIDRFromFloat(tt.amount)
			assert.Equal(t, tt.want, m.Format())
		})
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := NewMoneyIDRFromFloat(99.99)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("12345.67"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12345.67)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}
