package service

import (
	"strings"
	"time"

	"fx-transactions/internal/models"
	"fx-transactions/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalizer turns validated payloads into their stored form: strings trimmed,
// amounts rounded half-up to two decimals, timestamps taken from now.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

func (n *Normalizer) NormalizeCreate(payload map[string]any) models.Transaction {
	stamp, millis := models.Stamp(n.now())
	return models.Transaction{
		ID:               primitive.NewObjectID(),
		CustomerID:       stringValue(payload["customerId"]),
		FromAmount:       amountValue(payload["fromAmount"]),
		FromCurrency:     stringValue(payload["fromCurrency"]),
		ToAmount:         amountValue(payload["toAmount"]),
		ToCurrency:       stringValue(payload["toCurrency"]),
		Created:          stamp,
		CreatedTimestamp: millis,
		Updated:          stamp,
		UpdatedTimestamp: millis,
	}
}

// NormalizeUpdate keeps only the supplied fields. Absent or null fields stay nil
// in the patch.
func (n *Normalizer) NormalizeUpdate(payload map[string]any) models.TransactionPatch {
	stamp, millis := models.Stamp(n.now())
	patch := models.TransactionPatch{Updated: stamp, UpdatedTimestamp: millis}

	if v, ok := present(payload, "customerId"); ok {
		s := stringValue(v)
		patch.CustomerID = &s
	}
	if v, ok := present(payload, "fromAmount"); ok {
		a := amountValue(v)
		patch.FromAmount = &a
	}
	if v, ok := present(payload, "fromCurrency"); ok {
		s := stringValue(v)
		patch.FromCurrency = &s
	}
	if v, ok := present(payload, "toAmount"); ok {
		a := amountValue(v)
		patch.ToAmount = &a
	}
	if v, ok := present(payload, "toCurrency"); ok {
		s := stringValue(v)
		patch.ToCurrency = &s
	}
	return patch
}

func present(payload map[string]any, key string) (any, bool) {
	v, ok := payload[key]
	return v, ok && v != nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func amountValue(v any) float64 {
	d, ok := validation.NumberValue(v)
	if !ok {
		return 0
	}
	return d.Round(2).InexactFloat64()
}
