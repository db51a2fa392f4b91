package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/models"
	"fx-transactions/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionStore keeps transactions in process memory. It backs local runs
// with STORAGE_DRIVER=memory and the handler tests.
type TransactionStore struct {
	mu           sync.RWMutex
	transactions map[primitive.ObjectID]models.Transaction
	defaultLimit int64
	// failWith, when set, is returned by every call as a storage fault.
	failWith error
}

func NewTransactionStore(defaultLimit int64) *TransactionStore {
	if defaultLimit <= 0 {
		defaultLimit = storage.DefaultListLimit
	}
	return &TransactionStore{
		transactions: make(map[primitive.ObjectID]models.Transaction),
		defaultLimit: defaultLimit,
	}
}

// FailWith makes every subsequent call fail as if the store were unreachable.
// A nil err restores normal behaviour.
func (s *TransactionStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *TransactionStore) Create(ctx context.Context, record *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return custom_err.Storage(s.failWith)
	}
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if _, exists := s.transactions[record.ID]; exists {
		return custom_err.Storage(fmt.Errorf("duplicate id %s", record.ID.Hex()))
	}
	s.transactions[record.ID] = *record
	return nil
}

func (s *TransactionStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, custom_err.Storage(s.failWith)
	}
	tx, ok := s.transactions[id]
	if !ok {
		return nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.TransactionNotFoundMessage)
	}
	return &tx, nil
}

func (s *TransactionStore) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, custom_err.Storage(s.failWith)
	}

	result := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if filter.Matches(tx) {
			result = append(result, tx)
		}
	}
	// same order as the Mongo store: ascending _id
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.Hex() < result[j].ID.Hex()
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *TransactionStore) Update(ctx context.Context, id primitive.ObjectID, patch models.TransactionPatch) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, custom_err.Storage(s.failWith)
	}
	tx, ok := s.transactions[id]
	if !ok {
		return nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.UpdateTargetMissing)
	}
	patch.Apply(&tx)
	s.transactions[id] = tx
	return &tx, nil
}

func (s *TransactionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return custom_err.Storage(s.failWith)
	}
	delete(s.transactions, id)
	return nil
}

func (s *TransactionStore) Close() error {
	return nil
}

var _ storage.TransactionRepository = (*TransactionStore)(nil)
