package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/kafka"
	"fx-transactions/internal/models"
	"fx-transactions/internal/storage"
	"fx-transactions/internal/validation"

	"github.com/google/uuid"
)

type Transactions interface {
	Create(ctx context.Context, payload map[string]any) (*models.Transaction, error)
	List(ctx context.Context, filter map[string]any, limit int64) ([]models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Update(ctx context.Context, payload map[string]any) (*models.Transaction, error)
}

type TransactionService struct {
	repo       storage.TransactionRepository
	producer   kafka.Producer
	normalizer *Normalizer
	log        *slog.Logger
}

func NewTransactionService(
	repo storage.TransactionRepository,
	producer kafka.Producer,
	normalizer *Normalizer,
	log *slog.Logger,
) Transactions {
	return &TransactionService{
		repo:       repo,
		producer:   producer,
		normalizer: normalizer,
		log:        log,
	}
}

func (s *TransactionService) Create(ctx context.Context, payload map[string]any) (*models.Transaction, error) {
	const op = "service.Create"

	payload = validation.Sanitize(payload)
	if errs := createRules.Validate(payload); len(errs) > 0 {
		return nil, custom_err.Validation(errs)
	}

	record := s.normalizer.NormalizeCreate(payload)
	if err := s.repo.Create(ctx, &record); err != nil {
		s.log.Error("failed to create transaction", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("transaction created",
		slog.String("op", op),
		slog.String("transaction_id", record.ID.Hex()),
		slog.String("customer_id", record.CustomerID))

	s.publish(ctx, models.EventTransactionCreated, record)
	return &record, nil
}

func (s *TransactionService) List(ctx context.Context, filter map[string]any, limit int64) ([]models.Transaction, error) {
	const op = "service.List"

	query, ok := buildFilter(validation.Sanitize(filter))
	if !ok {
		return nil, custom_err.NotFound(custom_err.FieldTransactions, custom_err.TransactionsEmptyMessage)
	}
	query.Limit = limit

	records, err := s.repo.List(ctx, query)
	if err != nil {
		s.log.Error("failed to list transactions", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(records) == 0 {
		return nil, custom_err.NotFound(custom_err.FieldTransactions, custom_err.TransactionsEmptyMessage)
	}
	return records, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	const op = "service.Get"

	if id == "" {
		return nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.TransactionIDRequired)
	}
	txID, err := models.ParseTransactionID(id)
	if err != nil {
		return nil, &custom_err.Error{
			Kind:   custom_err.KindNotFound,
			Fields: map[string]string{custom_err.FieldTransaction: custom_err.TransactionIDInvalid},
			Err:    err,
		}
	}

	record, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		if !errors.Is(err, custom_err.ErrNotFound) {
			s.log.Error("failed to get transaction", slog.String("op", op), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record, nil
}

// Update merges the supplied fields over an existing transaction. The target
// is looked up first so a missing record is reported before field violations.
func (s *TransactionService) Update(ctx context.Context, payload map[string]any) (*models.Transaction, error) {
	const op = "service.Update"

	payload = validation.Sanitize(payload)
	if payload == nil {
		payload = map[string]any{}
	}

	rawID, _ := payload["id"].(string)
	txID, err := models.ParseTransactionID(rawID)
	if err != nil {
		return nil, &custom_err.Error{
			Kind:   custom_err.KindValidation,
			Fields: map[string]string{custom_err.FieldTransaction: custom_err.UpdateIDInvalid},
			Err:    err,
		}
	}

	if _, err := s.repo.GetByID(ctx, txID); err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, custom_err.NotFound(custom_err.FieldTransaction, custom_err.UpdateTargetMissing)
		}
		s.log.Error("failed to load transaction", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if errs := updateRules.Validate(payload); len(errs) > 0 {
		return nil, custom_err.Validation(errs)
	}

	record, err := s.repo.Update(ctx, txID, s.normalizer.NormalizeUpdate(payload))
	if err != nil {
		if !errors.Is(err, custom_err.ErrNotFound) {
			s.log.Error("failed to update transaction", slog.String("op", op), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("transaction updated",
		slog.String("op", op),
		slog.String("transaction_id", record.ID.Hex()))

	s.publish(ctx, models.EventTransactionUpdated, *record)
	return record, nil
}

// publish reports failures in the log only; the write has already succeeded.
func (s *TransactionService) publish(ctx context.Context, eventType models.EventType, record models.Transaction) {
	event := models.TransactionEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		TransactionID: record.ID.Hex(),
		CustomerID:    record.CustomerID,
		FromAmount:    record.FromAmount,
		FromCurrency:  record.FromCurrency,
		ToAmount:      record.ToAmount,
		ToCurrency:    record.ToCurrency,
		Timestamp:     time.UnixMilli(record.UpdatedTimestamp).UTC(),
	}

	if err := s.producer.SendTransactionEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish transaction event",
			slog.String("event_type", string(eventType)),
			slog.String("transaction_id", event.TransactionID),
			slog.String("error", err.Error()))
	}
}

// buildFilter keeps the recognised keys with scalar values of the right type
// and drops everything else. ok is false when the filter names an id that can
// never match.
func buildFilter(payload map[string]any) (filter models.TransactionFilter, ok bool) {
	for key, value := range payload {
		switch key {
		case "id":
			s, isString := value.(string)
			if !isString {
				continue
			}
			id, err := models.ParseTransactionID(s)
			if err != nil {
				return filter, false
			}
			filter.ID = &id
		case "customerId":
			filter.CustomerID = stringFilter(value)
		case "fromCurrency":
			filter.FromCurrency = stringFilter(value)
		case "toCurrency":
			filter.ToCurrency = stringFilter(value)
		case "fromAmount":
			filter.FromAmount = amountFilter(value)
		case "toAmount":
			filter.ToAmount = amountFilter(value)
		}
	}
	return filter, true
}

func stringFilter(value any) *string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return &s
}

func amountFilter(value any) *float64 {
	d, ok := validation.NumberValue(value)
	if !ok {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
