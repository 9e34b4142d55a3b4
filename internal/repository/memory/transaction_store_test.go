package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

func sample(t models.TransactionType, code, qty, date string) models.Transaction {
	return models.Transaction{
		Type:      t,
		ItemCode:  code,
		Quantity:  decimal.RequireFromString(qty),
		Unit:      "EA",
		UnitPrice: decimal.NewFromInt(10),
		Date:      date,
	}
}

func TestAddAssignsIdentityAndTotal(t *testing.T) {
	store := NewTransactionStore(models.ValidationRules{})

	saved, err := store.Add(context.Background(), sample(models.TransactionIn, "A", "3", "2024-05-01"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(30)))
}

func TestAddRejectsInvalid(t *testing.T) {
	store := NewTransactionStore(models.ValidationRules{RequireItemCode: true})

	tx := sample(models.TransactionIn, "", "3", "2024-05-01")
	tx.ItemName = "Anchor"
	_, err := store.Add(context.Background(), tx)
	assert.True(t, errors.Is(err, models.ErrValidation))

	list, err := store.List(context.Background(), models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListFiltersAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(models.ValidationRules{})

	for _, tx := range []models.Transaction{
		sample(models.TransactionIn, "A", "1", "2024-05-03"),
		sample(models.TransactionOut, "A", "1", "2024-05-01"),
		sample(models.TransactionAdjust, "A", "-1", "2024-05-02"),
		sample(models.TransactionIn, "B", "1", "2024-06-01"),
	} {
		_, err := store.Add(ctx, tx)
		require.NoError(t, err)
	}

	all, err := store.List(ctx, models.TransactionFilter{Bucket: models.BucketAll})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "2024-05-03", all[0].Date)
	assert.Equal(t, "2024-06-01", all[3].Date)

	may, err := store.List(ctx, models.TransactionFilter{From: "2024-05-01", To: "2024-05-31"})
	require.NoError(t, err)
	assert.Len(t, may, 3)

	adjustments, err := store.List(ctx, models.TransactionFilter{Bucket: models.BucketAdjust})
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.Equal(t, models.TransactionAdjust, adjustments[0].Type)
}

func TestUpdateInPlace(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(models.ValidationRules{})

	first, err := store.Add(ctx, sample(models.TransactionIn, "A", "1", "2024-05-01"))
	require.NoError(t, err)
	_, err = store.Add(ctx, sample(models.TransactionIn, "B", "1", "2024-05-01"))
	require.NoError(t, err)

	qty := decimal.NewFromInt(7)
	updated, err := store.Update(ctx, first.ID, models.TransactionPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, first.CreatedAt, updated.CreatedAt)

	list, err := store.List(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, list[0].ID)
	assert.True(t, list[0].Quantity.Equal(qty))
}

func TestUpdateRejectsInvalidResult(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(models.ValidationRules{})

	saved, err := store.Add(ctx, sample(models.TransactionIn, "A", "1", "2024-05-01"))
	require.NoError(t, err)

	zero := decimal.Zero
	_, err = store.Update(ctx, saved.ID, models.TransactionPatch{Quantity: &zero})
	assert.True(t, errors.Is(err, models.ErrValidation))

	list, err := store.List(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	assert.True(t, list[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(models.ValidationRules{})

	saved, err := store.Add(ctx, sample(models.TransactionIn, "A", "1", "2024-05-01"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, saved.ID))
	assert.True(t, errors.Is(store.Delete(ctx, saved.ID), models.ErrNotFound))

	qty := decimal.NewFromInt(1)
	_, err = store.Update(ctx, saved.ID, models.TransactionPatch{Quantity: &qty})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
