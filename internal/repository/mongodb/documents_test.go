package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

func rawValue(t *testing.T, value interface{}) bson.RawValue {
	t.Helper()
	kind, data, err := bson.MarshalValue(value)
	require.NoError(t, err)
	return bson.RawValue{Type: kind, Value: data}
}

func TestDecimalFromRaw(t *testing.T) {
	d128, err := primitive.ParseDecimal128("12.345")
	require.NoError(t, err)

	cases := []struct {
		name  string
		value bson.RawValue
		want  string
	}{
		{name: "decimal128", value: rawValue(t, d128), want: "12.345"},
		{name: "double", value: rawValue(t, 2.5), want: "2.5"},
		{name: "int32", value: rawValue(t, int32(-4)), want: "-4"},
		{name: "int64", value: rawValue(t, int64(9000000000)), want: "9000000000"},
		{name: "numeric string", value: rawValue(t, " 7.10 "), want: "7.1"},
		{name: "garbage string", value: rawValue(t, "ten"), want: "0"},
		{name: "boolean", value: rawValue(t, true), want: "0"},
		{name: "missing", value: bson.RawValue{}, want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decimalFromRaw(tc.value)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestTransactionDocumentReadsBack(t *testing.T) {
	customer := "ACME"
	tx := models.Transaction{
		ID:           "t-1",
		Type:         models.TransactionOut,
		ItemName:     "Bolt",
		ItemCode:     "B-1",
		Quantity:     decimal.RequireFromString("2.5"),
		Unit:         "KG",
		UnitPrice:    decimal.RequireFromString("40"),
		Date:         "2024-05-01",
		Counterparty: &customer,
		Notes:        "rush",
		CreatedAt:    time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	tx.Recompute()

	data, err := bson.Marshal(toTransactionDocument(tx))
	require.NoError(t, err)

	var stored storedTransaction
	require.NoError(t, bson.Unmarshal(data, &stored))

	got := stored.toModel()
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, tx.Type, got.Type)
	assert.True(t, got.Quantity.Equal(tx.Quantity))
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "ACME", got.CounterpartyName())
	assert.True(t, got.CreatedAt.Equal(tx.CreatedAt))
}

func TestStoredTransactionToleratesForeignShapes(t *testing.T) {
	data, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "legacy"},
		{Key: "type", Value: "in"},
		{Key: "item_name", Value: "Washer"},
		{Key: "quantity", Value: "12"},
		{Key: "unit_price", Value: 1.5},
		{Key: "date", Value: "2024-01-09"},
	})
	require.NoError(t, err)

	var stored storedTransaction
	require.NoError(t, bson.Unmarshal(data, &stored))

	got := stored.toModel()
	assert.Equal(t, models.TransactionIn, got.Type)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, got.TotalAmount.IsZero())
	assert.Nil(t, got.Counterparty)
}

func TestBuildFilter(t *testing.T) {
	assert.Equal(t, bson.D{}, buildFilter(models.TransactionFilter{Bucket: models.BucketAll}))

	got := buildFilter(models.TransactionFilter{From: "2024-05-01", To: "2024-05-31", Bucket: models.BucketOut})
	want := bson.D{
		{Key: "type", Value: "OUT"},
		{Key: "date", Value: bson.D{{Key: "$gte", Value: "2024-05-01"}, {Key: "$lte", Value: "2024-05-31"}}},
	}
	assert.Equal(t, want, got)

	assert.Equal(t, bson.D{{Key: "date", Value: bson.D{{Key: "$lte", Value: "2024-01-31"}}}}, buildFilter(models.TransactionFilter{To: "2024-01-31"}))
}

func TestSalesRecordDocument(t *testing.T) {
	doc := toSalesRecordDocument(models.FinancialMirrorRecord{
		ID:                  "m-1",
		SourceTransactionID: "t-1",
		Amount:              decimal.RequireFromString("99.90"),
		Direction:           models.DirectionSale,
	})

	assert.Equal(t, "m-1", doc.ID)
	assert.Equal(t, "sale", doc.Direction)
	assert.Equal(t, "99.9", doc.Amount.String())
}
