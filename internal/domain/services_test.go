package domain_test

import (
	"testing"

	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceByID(t *testing.T) {
	t.Run("finds every catalog entry", func(t *testing.T) {
		for _, svc := range domain.Services {
			found, ok := domain.ServiceByID(svc.ID)
			require.True(t, ok, "catalog entry %s not found", svc.ID)
			assert.Equal(t, svc.Name, found.Name)
		}
	})

	t.Run("unknown ID reports false", func(t *testing.T) {
		_, ok := domain.ServiceByID("payday-loans")
		assert.False(t, ok)
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		_, ok := domain.ServiceByID("JUDGEMENT")
		assert.False(t, ok)
	})
}

func TestParseRandAmount(t *testing.T) {
	t.Run("parses plain amounts", func(t *testing.T) {
		amount, ok := domain.ParseRandAmount("R 350")
		require.True(t, ok)
		assert.Equal(t, 350, amount)
	})

	t.Run("strips thousands separators", func(t *testing.T) {
		amount, ok := domain.ParseRandAmount("R 4,500")
		require.True(t, ok)
		assert.Equal(t, 4500, amount)
	})

	t.Run("takes the first amount in a compound cost string", func(t *testing.T) {
		amount, ok := domain.ParseRandAmount("R 850 per creditor (if creditors are more than 3, it will cost R 3,200 only)")
		require.True(t, ok)
		assert.Equal(t, 850, amount)
	})

	t.Run("every catalog cost parses", func(t *testing.T) {
		for _, svc := range domain.Services {
			_, ok := domain.ParseRandAmount(svc.Cost)
			assert.True(t, ok, "cost for %s should parse: %q", svc.ID, svc.Cost)
		}
	})

	t.Run("strings without an amount report false", func(t *testing.T) {
		_, ok := domain.ParseRandAmount("free consultation")
		assert.False(t, ok)
		_, ok = domain.ParseRandAmount("")
		assert.False(t, ok)
	})
}

func TestFormatRandAmount(t *testing.T) {
	assert.Equal(t, "R 350", domain.FormatRandAmount(350))
	assert.Equal(t, "R 4,500", domain.FormatRandAmount(4500))
	assert.Equal(t, "R 1,234,567", domain.FormatRandAmount(1234567))
	assert.Equal(t, "R 0", domain.FormatRandAmount(0))
}
