package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// SequenceSource provides the next lead sequence number for a year.
type SequenceSource interface {
	NextSequence(ctx context.Context, year int) (int, error)
}

// LeadNumberService generates unique lead numbers.
//
// Format: LEAD-{YEAR}-{SEQUENCE}
// Example: LEAD-2026-0001, LEAD-2026-0042
type LeadNumberService struct {
	sequences SequenceSource
	logger    *zap.Logger
}

// NewLeadNumberService creates a new LeadNumberService
func NewLeadNumberService(sequences SequenceSource, logger *zap.Logger) *LeadNumberService {
	return &LeadNumberService{
		sequences: sequences,
		logger:    logger,
	}
}

// Generate produces the next lead number. Generation never fails: if the
// sequence cannot be advanced the number falls back to a random suffix in
// the 1000-9999 range so lead capture goes through regardless.
func (s *LeadNumberService) Generate(ctx context.Context) string {
	year := time.Now().Year()

	seq, err := s.sequences.NextSequence(ctx, year)
	if err != nil {
		seq = rand.Intn(9000) + 1000
		s.logger.Warn("failed to advance lead sequence, using random fallback",
			zap.Int("year", year),
			zap.Int("fallback", seq),
			zap.Error(err))
	}

	number := FormatLeadNumber(year, seq)

	s.logger.Info("generated lead number",
		zap.String("number", number),
		zap.Int("year", year),
		zap.Int("sequence", seq))

	return number
}

// FormatLeadNumber renders a year/sequence pair in the canonical
// LEAD-YYYY-NNNN form (sequence zero-padded to 4 digits).
func FormatLeadNumber(year, seq int) string {
	return fmt.Sprintf("LEAD-%d-%04d", year, seq)
}
