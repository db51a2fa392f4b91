package models

import "time"

type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionUpdated EventType = "transaction.updated"
)

// TransactionEvent is published after a transaction has been persisted.
type TransactionEvent struct {
	EventID       string    `json:"event_id"`
	Type          EventType `json:"type"`
	TransactionID string    `json:"transaction_id"`
	CustomerID    string    `json:"customer_id"`
	FromAmount    float64   `json:"from_amount"`
	FromCurrency  string    `json:"from_currency"`
	ToAmount      float64   `json:"to_amount"`
	ToCurrency    string    `json:"to_currency"`
	Timestamp     time.Time `json:"timestamp"`
}
