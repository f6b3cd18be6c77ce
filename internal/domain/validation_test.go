package domain_test

import (
	"testing"

	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateIDNumber(t *testing.T) {
	t.Run("accepts valid ID numbers", func(t *testing.T) {
		valid := []string{
			"8503155800084",
			"9001049818080",
		}
		for _, id := range valid {
			assert.True(t, domain.ValidateIDNumber(id), "expected %s to be valid", id)
		}
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		assert.False(t, domain.ValidateIDNumber(""))
		assert.False(t, domain.ValidateIDNumber("850315580008"))
		assert.False(t, domain.ValidateIDNumber("85031558000844"))
	})

	t.Run("rejects non-digit characters", func(t *testing.T) {
		assert.False(t, domain.ValidateIDNumber("850315580008a"))
		assert.False(t, domain.ValidateIDNumber("8503 55800084"))
	})

	t.Run("rejects impossible birth month", func(t *testing.T) {
		// month 13
		assert.False(t, domain.ValidateIDNumber("8513155800083"))
		// month 00
		assert.False(t, domain.ValidateIDNumber("8500155800086"))
	})

	t.Run("rejects impossible birth day", func(t *testing.T) {
		// day 32
		assert.False(t, domain.ValidateIDNumber("8503325800083"))
		// day 00
		assert.False(t, domain.ValidateIDNumber("8503005800089"))
	})

	t.Run("rejects bad check digit", func(t *testing.T) {
		assert.False(t, domain.ValidateIDNumber("8503155800085"))
		assert.False(t, domain.ValidateIDNumber("8503155800083"))
	})
}

func TestValidateCellNumber(t *testing.T) {
	t.Run("accepts ten digits starting with zero", func(t *testing.T) {
		assert.True(t, domain.ValidateCellNumber("0821234567"))
	})

	t.Run("accepts spaces and dashes", func(t *testing.T) {
		assert.True(t, domain.ValidateCellNumber("082 123 4567"))
		assert.True(t, domain.ValidateCellNumber("082-123-4567"))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		assert.False(t, domain.ValidateCellNumber("082123456"))
		assert.False(t, domain.ValidateCellNumber("08212345678"))
	})

	t.Run("rejects numbers not starting with zero", func(t *testing.T) {
		assert.False(t, domain.ValidateCellNumber("2782123456"))
	})

	t.Run("rejects letters", func(t *testing.T) {
		assert.False(t, domain.ValidateCellNumber("082123456a"))
	})
}

func TestFormatCellNumber(t *testing.T) {
	assert.Equal(t, "082 123 4567", domain.FormatCellNumber("0821234567"))
	assert.Equal(t, "082 123 4567", domain.FormatCellNumber("082-123-4567"))

	// anything that does not clean to ten digits comes back untouched
	assert.Equal(t, "12345", domain.FormatCellNumber("12345"))
	assert.Equal(t, "", domain.FormatCellNumber(""))
}
