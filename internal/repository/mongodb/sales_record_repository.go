package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// SalesRecordRepository stores financial mirror records in MongoDB.
type SalesRecordRepository struct {
	collection *mongo.Collection
}

// NewSalesRecordRepository builds a mirror sink over collection.
func NewSalesRecordRepository(collection *mongo.Collection) *SalesRecordRepository {
	return &SalesRecordRepository{collection: collection}
}

// Emit inserts record. The record id doubles as an idempotency key, so a
// replayed emission fails with a duplicate key error instead of duplicating.
func (r *SalesRecordRepository) Emit(ctx context.Context, record models.FinancialMirrorRecord) error {
	if _, err := r.collection.InsertOne(ctx, toSalesRecordDocument(record)); err != nil {
		return fmt.Errorf("insert sales record: %w", err)
	}
	return nil
}
