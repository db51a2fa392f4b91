package storage

import (
	"context"

	"fx-transactions/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultListLimit caps List when the filter does not carry its own limit.
const DefaultListLimit int64 = 100

// Repository is the store access contract for one record type T with its patch
// type P and filter type F. Lookups of absent records return a
// custom_err NotFound error; driver faults come back as custom_err.Storage.
type Repository[T, P, F any] interface {
	Create(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	List(ctx context.Context, filter F) ([]T, error)
	Update(ctx context.Context, id primitive.ObjectID, patch P) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Close() error
}

type TransactionRepository = Repository[models.Transaction, models.TransactionPatch, models.TransactionFilter]
