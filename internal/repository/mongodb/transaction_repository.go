package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// TransactionRepository persists ledger entries in a MongoDB collection.
// Iteration order is creation time, then id.
type TransactionRepository struct {
	collection *mongo.Collection
	rules      models.ValidationRules
	now        func() time.Time
}

// NewTransactionRepository builds a store over collection.
func NewTransactionRepository(collection *mongo.Collection, rules models.ValidationRules) *TransactionRepository {
	return &TransactionRepository{collection: collection, rules: rules, now: time.Now}
}

// Add validates tx and inserts it under a fresh id.
func (r *TransactionRepository) Add(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := tx.Validate(r.rules); err != nil {
		return models.Transaction{}, err
	}

	tx.ID = uuid.NewString()
	tx.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	tx.Recompute()

	if _, err := r.collection.InsertOne(ctx, toTransactionDocument(tx)); err != nil {
		return models.Transaction{}, models.NewPersistenceError("mongodb.add", fmt.Errorf("insert transaction: %w", err))
	}
	return tx, nil
}

// Update loads the transaction, applies patch, revalidates and replaces it.
func (r *TransactionRepository) Update(ctx context.Context, id string, patch models.TransactionPatch) (models.Transaction, error) {
	const op = "mongodb.update"

	var stored storedTransaction
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Transaction{}, models.NewNotFoundError(op, id)
		}
		return models.Transaction{}, models.NewPersistenceError(op, fmt.Errorf("find transaction %s: %w", id, err))
	}

	updated := patch.Apply(stored.toModel())
	if err := updated.Validate(r.rules); err != nil {
		return models.Transaction{}, err
	}

	res, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, toTransactionDocument(updated))
	if err != nil {
		return models.Transaction{}, models.NewPersistenceError(op, fmt.Errorf("replace transaction %s: %w", id, err))
	}
	if res.MatchedCount == 0 {
		return models.Transaction{}, models.NewNotFoundError(op, id)
	}
	return updated, nil
}

// Delete removes the transaction id.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	const op = "mongodb.delete"

	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return models.NewPersistenceError(op, fmt.Errorf("delete transaction %s: %w", id, err))
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError(op, id)
	}
	return nil
}

// List returns the transactions matching filter in store order.
func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	const op = "mongodb.list"

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, buildFilter(filter), findOptions)
	if err != nil {
		return nil, models.NewPersistenceError(op, fmt.Errorf("find transactions: %w", err))
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	for cursor.Next(ctx) {
		var stored storedTransaction
		if err := cursor.Decode(&stored); err != nil {
			return nil, models.NewPersistenceError(op, fmt.Errorf("decode transaction: %w", err))
		}
		transactions = append(transactions, stored.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, models.NewPersistenceError(op, fmt.Errorf("iterate transactions: %w", err))
	}
	return transactions, nil
}

// EnsureIndexes creates the indexes used by date and type listings.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create transaction indexes: %w", err)
	}
	return nil
}

func buildFilter(filter models.TransactionFilter) bson.D {
	query := bson.D{}

	switch filter.Bucket {
	case models.BucketIn:
		query = append(query, bson.E{Key: "type", Value: string(models.TransactionIn)})
	case models.BucketOut:
		query = append(query, bson.E{Key: "type", Value: string(models.TransactionOut)})
	case models.BucketAdjust:
		query = append(query, bson.E{Key: "type", Value: string(models.TransactionAdjust)})
	}

	dateRange := bson.D{}
	if filter.From != "" {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: filter.From})
	}
	if filter.To != "" {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: filter.To})
	}
	if len(dateRange) > 0 {
		query = append(query, bson.E{Key: "date", Value: dateRange})
	}

	return query
}
