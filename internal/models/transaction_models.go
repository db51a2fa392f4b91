package models

import (
	"fmt"
	"strings"
	"time"

	"fx-transactions/internal/custom_err"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Layout of the human-readable created/updated fields.
const TimestampLayout = "2006-01-02 15:04:05"

// Transaction is one recorded foreign-exchange conversion.
type Transaction struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	CustomerID       string             `bson:"customerId" json:"customerId"`
	FromAmount       float64            `bson:"fromAmount" json:"fromAmount"`
	FromCurrency     string             `bson:"fromCurrency" json:"fromCurrency"`
	ToAmount         float64            `bson:"toAmount" json:"toAmount"`
	ToCurrency       string             `bson:"toCurrency" json:"toCurrency"`
	Created          string             `bson:"created" json:"created"`
	CreatedTimestamp int64              `bson:"createdTimestamp" json:"createdTimestamp"`
	Updated          string             `bson:"updated" json:"updated"`
	UpdatedTimestamp int64              `bson:"updatedTimestamp" json:"updatedTimestamp"`
}

// TransactionPatch carries the fields of an update. Nil fields are left untouched;
// Updated/UpdatedTimestamp are always written.
type TransactionPatch struct {
	CustomerID       *string
	FromAmount       *float64
	FromCurrency     *string
	ToAmount         *float64
	ToCurrency       *string
	Updated          string
	UpdatedTimestamp int64
}

// Apply merges the patch over t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.CustomerID != nil {
		t.CustomerID = *p.CustomerID
	}
	if p.FromAmount != nil {
		t.FromAmount = *p.FromAmount
	}
	if p.FromCurrency != nil {
		t.FromCurrency = *p.FromCurrency
	}
	if p.ToAmount != nil {
		t.ToAmount = *p.ToAmount
	}
	if p.ToCurrency != nil {
		t.ToCurrency = *p.ToCurrency
	}
	t.Updated = p.Updated
	t.UpdatedTimestamp = p.UpdatedTimestamp
}

// TransactionFilter restricts a listing to exact matches. Limit <= 0 means the
// store default.
type TransactionFilter struct {
	ID           *primitive.ObjectID
	CustomerID   *string
	FromAmount   *float64
	FromCurrency *string
	ToAmount     *float64
	ToCurrency   *string
	Limit        int64
}

func (f TransactionFilter) Matches(t Transaction) bool {
	switch {
	case f.ID != nil && *f.ID != t.ID:
		return false
	case f.CustomerID != nil && *f.CustomerID != t.CustomerID:
		return false
	case f.FromAmount != nil && *f.FromAmount != t.FromAmount:
		return false
	case f.FromCurrency != nil && *f.FromCurrency != t.FromCurrency:
		return false
	case f.ToAmount != nil && *f.ToAmount != t.ToAmount:
		return false
	case f.ToCurrency != nil && *f.ToCurrency != t.ToCurrency:
		return false
	}
	return true
}

// ParseTransactionID accepts exactly 24 hexadecimal characters.
func ParseTransactionID(s string) (primitive.ObjectID, error) {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return primitive.NilObjectID, fmt.Errorf("%w: %q must be 24 characters long", custom_err.ErrInvalidID, s)
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q is not hexadecimal", custom_err.ErrInvalidID, s)
	}
	return id, nil
}

// Stamp returns the readable and epoch-millisecond forms of t in UTC.
func Stamp(t time.Time) (string, int64) {
	t = t.UTC()
	return t.Format(TimestampLayout), t.UnixMilli()
}

// TransactionRequest documents the create body.
type TransactionRequest struct {
	CustomerID   string  `json:"customerId" example:"abc123"`
	FromAmount   float64 `json:"fromAmount" example:"1000"`
	FromCurrency string  `json:"fromCurrency" example:"USD"`
	ToAmount     float64 `json:"toAmount" example:"500000"`
	ToCurrency   string  `json:"toCurrency" example:"NGN"`
}

// TransactionUpdateRequest documents the update body. Omitted fields keep
// their stored values.
type TransactionUpdateRequest struct {
	ID           string   `json:"id" example:"507f191e810c19729de860ea"`
	CustomerID   *string  `json:"customerId,omitempty"`
	FromAmount   *float64 `json:"fromAmount,omitempty"`
	FromCurrency *string  `json:"fromCurrency,omitempty"`
	ToAmount     *float64 `json:"toAmount,omitempty"`
	ToCurrency   *string  `json:"toCurrency,omitempty"`
}
