package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/models"
)

func setupTransactionService() (*TransactionService, *MockTransactionRepository, *MockProducer) {
	repo := new(MockTransactionRepository)
	producer := new(MockProducer)

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	service := &TransactionService{
		repo:       repo,
		producer:   producer,
		normalizer: NewNormalizer(fixedClock),
		log:        log,
	}

	return service, repo, producer
}

func payload(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))
	return out
}

func eventOfType(eventType models.EventType) any {
	return mock.MatchedBy(func(e models.TransactionEvent) bool {
		return e.Type == eventType && e.EventID != "" && len(e.TransactionID) == 24
	})
}

func existingTransaction() *models.Transaction {
	return &models.Transaction{
		ID:               primitive.NewObjectID(),
		CustomerID:       "abc123",
		FromAmount:       1000,
		FromCurrency:     "USD",
		ToAmount:         500000,
		ToCurrency:       "NGN",
		Created:          "2023-12-31 00:00:00",
		CreatedTimestamp: 1703980800000,
		Updated:          "2023-12-31 00:00:00",
		UpdatedTimestamp: 1703980800000,
	}
}

func TestTransactionService_Create_Success(t *testing.T) {
	service, repo, producer := setupTransactionService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)
	producer.On("SendTransactionEvent", ctx, eventOfType(models.EventTransactionCreated)).Return(nil)

	got, err := service.Create(ctx, payload(t,
		`{"customerId":" abc123 ","fromAmount":1000,"fromCurrency":"USD","toAmount":500000,"toCurrency":"NGN"}`))

	require.NoError(t, err)
	assert.False(t, got.ID.IsZero())
	assert.Equal(t, "abc123", got.CustomerID)
	assert.Equal(t, 1000.0, got.FromAmount)
	assert.Equal(t, 500000.0, got.ToAmount)
	assert.Equal(t, "2024-01-02 03:04:05", got.Created)
	assert.Equal(t, got.Created, got.Updated)

	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestTransactionService_Create_ValidationError(t *testing.T) {
	service, repo, producer := setupTransactionService()

	_, err := service.Create(context.Background(), payload(t,
		`{"customerId":"","fromAmount":"rew","fromCurrency":"EUR","toAmount":26000.8798943,"toCurrency":"Dollar"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, custom_err.ErrValidation))

	_, fields := custom_err.FieldsOf(err)
	assert.Len(t, fields, 4)
	assert.Contains(t, fields, "customerId")
	assert.Contains(t, fields, "fromAmount")
	assert.Contains(t, fields, "toAmount")
	assert.Contains(t, fields, "toCurrency")
	assert.NotContains(t, fields, "fromCurrency")

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "SendTransactionEvent", mock.Anything, mock.Anything)
}

func TestTransactionService_Create_EmptyPayload(t *testing.T) {
	service, _, _ := setupTransactionService()

	_, err := service.Create(context.Background(), nil)

	require.Error(t, err)
	_, fields := custom_err.FieldsOf(err)
	assert.Len(t, fields, 5)
	assert.Equal(t, `"Customer ID" is required`, fields["customerId"])
}

func TestTransactionService_Create_StoreFailure(t *testing.T) {
	service, repo, producer := setupTransactionService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(custom_err.Storage(errors.New("connection refused")))

	_, err := service.Create(ctx, payload(t,
		`{"customerId":"abc123","fromAmount":1,"fromCurrency":"USD","toAmount":2,"toCurrency":"NGN"}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, custom_err.ErrApplication))
	assert.True(t, errors.Is(err, custom_err.ErrStorage))
	producer.AssertNotCalled(t, "SendTransactionEvent", mock.Anything, mock.Anything)
}

func TestTransactionService_Create_PublishFailureIsNotFatal(t *testing.T) {
	service, repo, producer := setupTransactionService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)
	producer.On("SendTransactionEvent", ctx, mock.Anything).Return(errors.New("broker down"))

	got, err := service.Create(ctx, payload(t,
		`{"customerId":"abc123","fromAmount":1,"fromCurrency":"USD","toAmount":2,"toCurrency":"NGN"}`))

	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestTransactionService_List_Success(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()
	records := []models.Transaction{*existingTransaction()}

	repo.On("List", ctx, models.TransactionFilter{}).Return(records, nil)

	got, err := service.List(ctx, nil, 0)

	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestTransactionService_List_FilterAllowlist(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()
	customer := "abc123"
	amount := 10.5

	repo.On("List", ctx, models.TransactionFilter{CustomerID: &customer, FromAmount: &amount, Limit: 5}).
		Return([]models.Transaction{*existingTransaction()}, nil)

	_, err := service.List(ctx, payload(t,
		`{"customerId":" abc123 ","fromAmount":10.5,"toCurrency":{"$ne":"USD"},"$where":"1","toAmount":"12"}`), 5)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTransactionService_List_Empty(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()

	repo.On("List", ctx, mock.Anything).Return([]models.Transaction{}, nil)

	_, err := service.List(ctx, nil, 0)

	require.Error(t, err)
	assert.True(t, errors.Is(err, custom_err.ErrNotFound))
	_, fields := custom_err.FieldsOf(err)
	assert.Equal(t, custom_err.TransactionsEmptyMessage, fields[custom_err.FieldTransactions])
}

func TestTransactionService_List_UnmatchableID(t *testing.T) {
	service, repo, _ := setupTransactionService()

	_, err := service.List(context.Background(), map[string]any{"id": "nope"}, 0)

	assert.True(t, errors.Is(err, custom_err.ErrNotFound))
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTransactionService_List_StoreFailure(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()

	repo.On("List", ctx, mock.Anything).Return(nil, custom_err.Storage(errors.New("timeout")))

	_, err := service.List(ctx, nil, 0)

	assert.True(t, errors.Is(err, custom_err.ErrApplication))
	_, fields := custom_err.FieldsOf(err)
	assert.Equal(t, custom_err.AppErrorMessage, fields[custom_err.FieldApp])
}

func TestTransactionService_Get(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()
	record := existingTransaction()

	repo.On("GetByID", ctx, record.ID).Return(record, nil)

	got, err := service.Get(ctx, record.ID.Hex())

	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestTransactionService_Get_BadID(t *testing.T) {
	service, repo, _ := setupTransactionService()

	tests := []struct {
		id   string
		want string
	}{
		{"", custom_err.TransactionIDRequired},
		{"abc", custom_err.TransactionIDInvalid},
		{"zzzb6742d6676e356218155a", custom_err.TransactionIDInvalid},
	}

	for _, tt := range tests {
		_, err := service.Get(context.Background(), tt.id)
		assert.True(t, errors.Is(err, custom_err.ErrNotFound))
		_, fields := custom_err.FieldsOf(err)
		assert.Equal(t, tt.want, fields[custom_err.FieldTransaction])
	}
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransactionService_Get_NotFound(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()
	id, _ := primitive.ObjectIDFromHex("111b6742d6676e356218155a")

	repo.On("GetByID", ctx, id).
		Return(nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.TransactionNotFoundMessage))

	_, err := service.Get(ctx, "111b6742d6676e356218155a")

	assert.True(t, errors.Is(err, custom_err.ErrNotFound))
	_, fields := custom_err.FieldsOf(err)
	assert.Equal(t, custom_err.TransactionNotFoundMessage, fields[custom_err.FieldTransaction])
}

func TestTransactionService_Update_Success(t *testing.T) {
	service, repo, producer := setupTransactionService()
	ctx := context.Background()
	record := existingTransaction()
	customer := "xyz789"

	patch := models.TransactionPatch{
		CustomerID:       &customer,
		Updated:          "2024-01-02 03:04:05",
		UpdatedTimestamp: fixedNow.UnixMilli(),
	}
	merged := *record
	patch.Apply(&merged)

	repo.On("GetByID", ctx, record.ID).Return(record, nil)
	repo.On("Update", ctx, record.ID, patch).Return(&merged, nil)
	producer.On("SendTransactionEvent", ctx, eventOfType(models.EventTransactionUpdated)).Return(nil)

	got, err := service.Update(ctx, map[string]any{"id": record.ID.Hex(), "customerId": " xyz789 "})

	require.NoError(t, err)
	assert.Equal(t, "xyz789", got.CustomerID)
	assert.Equal(t, record.FromAmount, got.FromAmount)
	assert.Equal(t, record.ToAmount, got.ToAmount)
	assert.Equal(t, record.FromCurrency, got.FromCurrency)
	assert.Equal(t, record.ToCurrency, got.ToCurrency)
	assert.Equal(t, record.Created, got.Created)
	assert.NotEqual(t, record.Updated, got.Updated)

	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestTransactionService_Update_InvalidID(t *testing.T) {
	service, repo, _ := setupTransactionService()

	for _, body := range []map[string]any{nil, {}, {"id": "123"}, {"id": 42}} {
		_, err := service.Update(context.Background(), body)
		assert.True(t, errors.Is(err, custom_err.ErrValidation))
		_, fields := custom_err.FieldsOf(err)
		assert.Equal(t, custom_err.UpdateIDInvalid, fields[custom_err.FieldTransaction])
	}
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransactionService_Update_TargetMissing(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()
	id := primitive.NewObjectID()

	repo.On("GetByID", ctx, id).
		Return(nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.TransactionNotFoundMessage))

	_, err := service.Update(ctx, map[string]any{"id": id.Hex(), "toCurrency": "Dollar"})

	assert.True(t, errors.Is(err, custom_err.ErrNotFound))
	_, fields := custom_err.FieldsOf(err)
	assert.Equal(t, map[string]string{custom_err.FieldTransaction: custom_err.UpdateTargetMissing}, fields)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionService_Update_ValidationError(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()
	record := existingTransaction()

	repo.On("GetByID", ctx, record.ID).Return(record, nil)

	_, err := service.Update(ctx, payload(t, `{"id":"`+record.ID.Hex()+`","toCurrency":"Dollar","fromAmount":"12"}`))

	assert.True(t, errors.Is(err, custom_err.ErrValidation))
	_, fields := custom_err.FieldsOf(err)
	assert.Contains(t, fields, "toCurrency")
	assert.Contains(t, fields, "fromAmount")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionService_Update_LoadFailure(t *testing.T) {
	service, repo, _ := setupTransactionService()
	ctx := context.Background()
	id := primitive.NewObjectID()

	repo.On("GetByID", ctx, id).Return(nil, custom_err.Storage(errors.New("timeout")))

	_, err := service.Update(ctx, map[string]any{"id": id.Hex()})

	assert.True(t, errors.Is(err, custom_err.ErrApplication))
}

func TestBuildFilter(t *testing.T) {
	id := primitive.NewObjectID()

	filter, ok := buildFilter(map[string]any{
		"id":           id.Hex(),
		"fromCurrency": "USD",
		"toCurrency":   42,
		"toAmount":     json.Number("7"),
		"extra":        "dropped",
	})

	require.True(t, ok)
	require.NotNil(t, filter.ID)
	assert.Equal(t, id, *filter.ID)
	require.NotNil(t, filter.FromCurrency)
	assert.Equal(t, "USD", *filter.FromCurrency)
	assert.Nil(t, filter.ToCurrency)
	require.NotNil(t, filter.ToAmount)
	assert.Equal(t, 7.0, *filter.ToAmount)
	assert.Nil(t, filter.CustomerID)

	_, ok = buildFilter(map[string]any{"id": "bad"})
	assert.False(t, ok)
}
