package custom_err

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{Validation(map[string]string{"customerId": "bad"}), ErrValidation},
		{NotFound(FieldTransaction, TransactionNotFoundMessage), ErrNotFound},
		{Unauthorized(TokenRejectedMessage, nil), ErrUnauthorized},
		{Application(errors.New("boom")), ErrApplication},
	}

	for _, tt := range tests {
		wrapped := fmt.Errorf("service.Op: %w", tt.err)
		assert.ErrorIs(t, wrapped, tt.want)
		for _, other := range []error{ErrValidation, ErrNotFound, ErrUnauthorized, ErrApplication} {
			if other != tt.want {
				assert.NotErrorIs(t, wrapped, other)
			}
		}
	}
}

func TestStorageMatchesStorageAndApplication(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrApplication)
	assert.ErrorIs(t, err, cause)

	kind, fields := FieldsOf(err)
	assert.Equal(t, KindApplication, kind)
	assert.Equal(t, map[string]string{FieldApp: AppErrorMessage}, fields)
}

func TestFieldsOf(t *testing.T) {
	kind, fields := FieldsOf(fmt.Errorf("handler: %w", Validation(map[string]string{"toCurrency": "bad"})))
	assert.Equal(t, KindValidation, kind)
	assert.Equal(t, map[string]string{"toCurrency": "bad"}, fields)

	kind, fields = FieldsOf(errors.New("plain"))
	assert.Equal(t, KindApplication, kind)
	assert.Equal(t, map[string]string{FieldApp: AppErrorMessage}, fields)
}

func TestErrorString(t *testing.T) {
	err := &Error{
		Kind:   KindValidation,
		Fields: map[string]string{"b": "second", "a": "first"},
		Err:    errors.New("cause"),
	}

	assert.Equal(t, "validation [a: first; b: second]: cause", err.Error())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "application", Kind(99).String())
}
