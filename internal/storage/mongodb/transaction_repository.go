package mongodb

import (
	"context"
	"errors"
	"time"

	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/models"
	"fx-transactions/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionRepository struct {
	client       *mongo.Client
	transactions *Collection[models.Transaction]
	defaultLimit int64
}

func NewTransactionRepository(client *mongo.Client, database, collection string, defaultLimit int64) *TransactionRepository {
	if defaultLimit <= 0 {
		defaultLimit = storage.DefaultListLimit
	}
	return &TransactionRepository{
		client:       client,
		transactions: NewCollection[models.Transaction](client.Database(database).Collection(collection)),
		defaultLimit: defaultLimit,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, record *models.Transaction) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	return r.transactions.Insert(ctx, record)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	tx, err := r.transactions.FindByID(ctx, id)
	if errors.Is(err, errNoDocument) {
		return nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.TransactionNotFoundMessage)
	}
	return tx, err
}

func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = r.defaultLimit
	}
	return r.transactions.Find(ctx, filterDocument(filter), limit)
}

func (r *TransactionRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.TransactionPatch) (*models.Transaction, error) {
	tx, err := r.transactions.SetByID(ctx, id, setDocument(patch))
	if errors.Is(err, errNoDocument) {
		return nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.UpdateTargetMissing)
	}
	return tx, err
}

func (r *TransactionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.transactions.DeleteByID(ctx, id)
}

func (r *TransactionRepository) Close() error {
	if r.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.client.Disconnect(ctx)
}

func setDocument(p models.TransactionPatch) bson.D {
	set := bson.D{}
	if p.CustomerID != nil {
		set = append(set, bson.E{Key: storage.FieldCustomerID, Value: *p.CustomerID})
	}
	if p.FromAmount != nil {
		set = append(set, bson.E{Key: storage.FieldFromAmount, Value: *p.FromAmount})
	}
	if p.FromCurrency != nil {
		set = append(set, bson.E{Key: storage.FieldFromCurrency, Value: *p.FromCurrency})
	}
	if p.ToAmount != nil {
		set = append(set, bson.E{Key: storage.FieldToAmount, Value: *p.ToAmount})
	}
	if p.ToCurrency != nil {
		set = append(set, bson.E{Key: storage.FieldToCurrency, Value: *p.ToCurrency})
	}
	return append(set,
		bson.E{Key: storage.FieldUpdated, Value: p.Updated},
		bson.E{Key: storage.FieldUpdatedTimestamp, Value: p.UpdatedTimestamp},
	)
}

func filterDocument(f models.TransactionFilter) bson.D {
	filter := bson.D{}
	if f.ID != nil {
		filter = append(filter, bson.E{Key: storage.FieldID, Value: *f.ID})
	}
	if f.CustomerID != nil {
		filter = append(filter, bson.E{Key: storage.FieldCustomerID, Value: *f.CustomerID})
	}
	if f.FromAmount != nil {
		filter = append(filter, bson.E{Key: storage.FieldFromAmount, Value: *f.FromAmount})
	}
	if f.FromCurrency != nil {
		filter = append(filter, bson.E{Key: storage.FieldFromCurrency, Value: *f.FromCurrency})
	}
	if f.ToAmount != nil {
		filter = append(filter, bson.E{Key: storage.FieldToAmount, Value: *f.ToAmount})
	}
	if f.ToCurrency != nil {
		filter = append(filter, bson.E{Key: storage.FieldToCurrency, Value: *f.ToCurrency})
	}
	return filter
}

var _ storage.TransactionRepository = (*TransactionRepository)(nil)
