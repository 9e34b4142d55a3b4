package ledger

import (
	"context"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// TransactionStore is the mutable collection of ledger entries.
//
// Add assigns a fresh id and creation time and fails with models.ErrValidation
// for unpersistable records. Update and Delete fail with models.ErrNotFound for
// unknown ids. List returns matches in store iteration order.
type TransactionStore interface {
	Add(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	Update(ctx context.Context, id string, patch models.TransactionPatch) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
}

// MirrorSink accepts financial mirror records. Failures are never rolled back
// into the originating transaction.
type MirrorSink interface {
	Emit(ctx context.Context, record models.FinancialMirrorRecord) error
}

// CatalogLookup resolves product ids for transaction pre-fill.
type CatalogLookup interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}
