package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// TransactionStore keeps ledger entries in process memory in insertion order.
type TransactionStore struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	rules        models.ValidationRules
	now          func() time.Time
}

// NewTransactionStore creates an empty store enforcing rules on every write.
func NewTransactionStore(rules models.ValidationRules) *TransactionStore {
	return &TransactionStore{rules: rules, now: time.Now}
}

// Add validates and appends tx under a fresh id.
func (s *TransactionStore) Add(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := tx.Validate(s.rules); err != nil {
		return models.Transaction{}, err
	}

	tx.ID = uuid.NewString()
	tx.CreatedAt = s.now().UTC()
	tx.Recompute()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

// Update applies patch to the transaction id in place, keeping its position.
func (s *TransactionStore) Update(_ context.Context, id string, patch models.TransactionPatch) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Transaction{}, models.NewNotFoundError("memory.update", id)
	}

	updated := patch.Apply(s.transactions[idx])
	if err := updated.Validate(s.rules); err != nil {
		return models.Transaction{}, err
	}
	s.transactions[idx] = updated
	return updated, nil
}

// Delete removes the transaction id.
func (s *TransactionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.NewNotFoundError("memory.delete", id)
	}
	s.transactions = slices.Delete(s.transactions, idx, idx+1)
	return nil
}

// List returns a copy of the transactions matching filter.
func (s *TransactionStore) List(_ context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if filter.Matches(tx) {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (s *TransactionStore) indexOf(id string) int {
	return slices.IndexFunc(s.transactions, func(tx models.Transaction) bool {
		return tx.ID == id
	})
}
