package counter_test

import (
	"context"
	"testing"

	"go-leave/internal/shared/counter"
	"go-leave/internal/shared/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCounterRepository_GetNextValue(t *testing.T) {
	ctx := context.Background()
	db, sqlDB := testdb.Open(t, &counter.Counter{})
	repo := counter.NewRepository(db)
	companyA := uuid.NewString()
	companyB := uuid.NewString()

	first, err := repo.GetNextValue(ctx, companyA, "leave_request")
	assert.NoError(t, err)
	second, err := repo.GetNextValue(ctx, companyA, "leave_request")
	assert.NoError(t, err)
	other, err := repo.GetNextValue(ctx, companyB, "leave_request")
	assert.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other)

	t.Run("rolled back increment is not consumed", func(t *testing.T) {
		tx, err := sqlDB.BeginTx(ctx, nil)
		assert.NoError(t, err)
		v, err := repo.WithTx(tx).GetNextValue(ctx, companyA, "leave_request")
		assert.NoError(t, err)
		assert.Equal(t, int64(3), v)
		assert.NoError(t, tx.Rollback())

		again, err := repo.GetNextValue(ctx, companyA, "leave_request")
		assert.NoError(t, err)
		assert.Equal(t, int64(3), again)
	})
}
