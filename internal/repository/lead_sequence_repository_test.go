package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/iyfinance/leads-api/internal/repository"
	"github.com/iyfinance/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NextSequence relies on SELECT FOR UPDATE, which SQLite does not speak,
// so only the read path is covered here. The increment path runs against
// PostgreSQL in staging.
func TestLeadSequenceRepositoryCurrentSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewLeadSequenceRepository(db)
	ctx := context.Background()

	t.Run("missing year reports zero", func(t *testing.T) {
		seq, err := repo.CurrentSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Zero(t, seq)
	})

	t.Run("reads the stored value", func(t *testing.T) {
		require.NoError(t, db.Create(&domain.LeadSequence{
			Year:         2026,
			LastSequence: 41,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}).Error)

		seq, err := repo.CurrentSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 41, seq)
	})
}
