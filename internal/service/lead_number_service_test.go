package service_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/iyfinance/leads-api/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubSequenceSource struct {
	next int
	err  error
}

func (s *stubSequenceSource) NextSequence(_ context.Context, _ int) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.next, nil
}

func TestLeadNumberServiceGenerate(t *testing.T) {
	t.Run("formats year and sequence", func(t *testing.T) {
		svc := service.NewLeadNumberService(&stubSequenceSource{next: 42}, zap.NewNop())

		number := svc.Generate(context.Background())

		assert.Equal(t, fmt.Sprintf("LEAD-%d-0042", time.Now().Year()), number)
	})

	t.Run("pads the sequence to four digits", func(t *testing.T) {
		svc := service.NewLeadNumberService(&stubSequenceSource{next: 1}, zap.NewNop())

		number := svc.Generate(context.Background())

		assert.Equal(t, fmt.Sprintf("LEAD-%d-0001", time.Now().Year()), number)
	})

	t.Run("sequences past 9999 keep their full width", func(t *testing.T) {
		svc := service.NewLeadNumberService(&stubSequenceSource{next: 10001}, zap.NewNop())

		number := svc.Generate(context.Background())

		assert.Equal(t, fmt.Sprintf("LEAD-%d-10001", time.Now().Year()), number)
	})

	t.Run("falls back to a random suffix when the sequence fails", func(t *testing.T) {
		svc := service.NewLeadNumberService(&stubSequenceSource{err: errors.New("db down")}, zap.NewNop())

		number := svc.Generate(context.Background())

		pattern := regexp.MustCompile(fmt.Sprintf(`^LEAD-%d-[1-9]\d{3}$`, time.Now().Year()))
		assert.Regexp(t, pattern, number, "fallback suffix should be in the 1000-9999 range")
	})
}

func TestFormatLeadNumber(t *testing.T) {
	assert.Equal(t, "LEAD-2026-0007", service.FormatLeadNumber(2026, 7))
	assert.Equal(t, "LEAD-2026-1234", service.FormatLeadNumber(2026, 1234))
}
