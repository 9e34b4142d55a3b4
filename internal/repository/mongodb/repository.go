package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

const (
	dailyReportsCollection = "daily_reports"
	transactionsCollection = "inventory_transactions"
	salesRecordsCollection = "sales_records"
)

// ReportRepository defines the interface for report snapshot storage.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// MongoDBRepository owns the MongoDB connection and hands out collection-backed stores.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// SaveDailyReport stores one daily report snapshot.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	collection := r.client.Database(r.dbName).Collection(dailyReportsCollection)
	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

// Transactions returns the ledger store backed by this database.
func (r *MongoDBRepository) Transactions(rules models.ValidationRules) *TransactionRepository {
	return NewTransactionRepository(r.client.Database(r.dbName).Collection(transactionsCollection), rules)
}

// SalesRecords returns the financial mirror sink backed by this database.
func (r *MongoDBRepository) SalesRecords() *SalesRecordRepository {
	return NewSalesRecordRepository(r.client.Database(r.dbName).Collection(salesRecordsCollection))
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
