package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the body shape of every response the service writes.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Meta    *Meta             `json:"meta,omitempty"`
}

type Meta struct {
	TotalRecords int `json:"totalRecords"`
}

// Success builds {success:true, data}. data is dropped only when it is nil;
// zero values such as 0, "0" and "" are kept.
func Success(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Failure builds {success:false, errors}.
func Failure(errs map[string]string) Envelope {
	return Envelope{Success: false, Errors: errs}
}

func (e Envelope) WithMeta(totalRecords int) Envelope {
	e.Meta = &Meta{TotalRecords: totalRecords}
	return e
}

func WriteJSON(w http.ResponseWriter, log *slog.Logger, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error("failed to encode JSON response", slog.Int("status", status), slog.String("error", err.Error()))
	}
}

func WriteJSONSuccess(w http.ResponseWriter, log *slog.Logger, status int, data any) {
	WriteJSON(w, log, status, Success(data))
}

func WriteJSONError(w http.ResponseWriter, log *slog.Logger, status int, errs map[string]string) {
	WriteJSON(w, log, status, Failure(errs))
}
