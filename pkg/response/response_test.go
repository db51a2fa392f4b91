package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestSuccess_KeepsZeroValues(t *testing.T) {
	tests := []struct {
		name string
		data any
		want any
	}{
		{"zero number", 0, float64(0)},
		{"zero string", "0", "0"},
		{"empty string", "", ""},
		{"object", map[string]string{"id": "abc"}, map[string]any{"id": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(Success(tt.data))
			require.NoError(t, err)

			out := decode(t, raw)
			assert.Equal(t, true, out["success"])
			require.Contains(t, out, "data")
			assert.Equal(t, tt.want, out["data"])
		})
	}
}

func TestSuccess_OmitsAbsentData(t *testing.T) {
	raw, err := json.Marshal(Success(nil))
	require.NoError(t, err)

	out := decode(t, raw)
	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")
	assert.NotContains(t, out, "errors")
}

func TestFailure(t *testing.T) {
	raw, err := json.Marshal(Failure(map[string]string{"customerId": "required"}))
	require.NoError(t, err)

	out := decode(t, raw)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, map[string]any{"customerId": "required"}, out["errors"])
	assert.NotContains(t, out, "data")
}

func TestWriteJSON_SetsStatusAndMeta(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	WriteJSON(rec, log, http.StatusOK, Success([]int{1, 2}).WithMeta(2))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	out := decode(t, rec.Body.Bytes())
	assert.Equal(t, map[string]any{"totalRecords": float64(2)}, out["meta"])
}

func TestWriteJSONError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	WriteJSONError(rec, log, http.StatusUnauthorized, map[string]string{"message": "nope"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	out := decode(t, rec.Body.Bytes())
	assert.Equal(t, false, out["success"])
	assert.Equal(t, map[string]any{"message": "nope"}, out["errors"])
}
