package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"fx-transactions/internal/api/middlew"
	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/service"
	"fx-transactions/pkg/response"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type TransactionHandler struct {
	service service.Transactions
}

func NewTransactionHandler(service service.Transactions) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// Create godoc
// @Summary      Create an fx transaction
// @Description  Validates, normalizes and stores a new fx transaction
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.TransactionRequest true "Transaction data"
// @Success      201 {object} response.Envelope{data=models.Transaction}
// @Failure      400 {object} response.Envelope
// @Failure      401 {object} response.Envelope
// @Failure      500 {object} response.Envelope
// @Router       /transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Create"
	log := middlew.GetLogger(r.Context())

	payload := decodePayload(w, r, log, op)

	record, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, log, op, err, http.StatusBadRequest)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, record)
}

// List godoc
// @Summary      List fx transactions
// @Description  Returns stored transactions in creation order. An optional JSON body filters on customerId, fromCurrency, toCurrency, fromAmount, toAmount or id.
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Maximum number of records (default 100)"
// @Success      200 {object} response.Envelope{data=[]models.Transaction}
// @Failure      401 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Failure      500 {object} response.Envelope
// @Router       /transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handler.List"
	log := middlew.GetLogger(r.Context())

	filter := decodePayload(w, r, log, op)

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			log.Warn("ignoring invalid limit", slog.String("op", op), slog.String("limit", raw))
		} else {
			limit = parsed
		}
	}

	records, err := h.service.List(r.Context(), filter, limit)
	if err != nil {
		writeError(w, log, op, err, http.StatusNotFound)
		return
	}

	response.WriteJSON(w, log, http.StatusOK, response.Success(records).WithMeta(len(records)))
}

// Get godoc
// @Summary      Get an fx transaction
// @Description  Returns the transaction with the given 24 character hexadecimal id
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200 {object} response.Envelope{data=models.Transaction}
// @Failure      400 {object} response.Envelope
// @Failure      401 {object} response.Envelope
// @Failure      500 {object} response.Envelope
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Get"
	log := middlew.GetLogger(r.Context())

	record, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, log, op, err, http.StatusBadRequest)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, record)
}

// Update godoc
// @Summary      Update an fx transaction
// @Description  Merges the supplied fields over the transaction named by id
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body models.TransactionUpdateRequest true "Transaction id and fields to change"
// @Success      200 {object} response.Envelope{data=models.Transaction}
// @Failure      400 {object} response.Envelope
// @Failure      401 {object} response.Envelope
// @Failure      500 {object} response.Envelope
// @Router       /transactions/update [post]
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Update"
	log := middlew.GetLogger(r.Context())

	payload := decodePayload(w, r, log, op)

	record, err := h.service.Update(r.Context(), payload)
	if err != nil {
		writeError(w, log, op, err, http.StatusBadRequest)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, record)
}

// NotFound answers every unmatched route or method.
func NotFound(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())
	response.WriteJSONError(w, log, http.StatusNotFound,
		map[string]string{custom_err.FieldResource: custom_err.ResourceNotFoundMessage})
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} response.Envelope
// @Router       /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	response.WriteJSONSuccess(w, middlew.GetLogger(r.Context()), http.StatusOK, map[string]string{"status": "ok"})
}

// decodePayload reads the JSON object in the request body. Numbers are kept as
// json.Number so their exact literal reaches the validator. An absent or
// unreadable body yields an empty payload.
func decodePayload(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) map[string]any {
	payload := make(map[string]any)
	if r.Body == nil {
		return payload
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring unreadable body", slog.String("op", op), slog.String("error", err.Error()))
		}
		return make(map[string]any)
	}
	return payload
}

// writeError maps err onto the response contract. notFoundStatus differs
// between single-record operations (400) and listings (404).
func writeError(w http.ResponseWriter, log *slog.Logger, op string, err error, notFoundStatus int) {
	kind, fields := custom_err.FieldsOf(err)

	var status int
	switch kind {
	case custom_err.KindValidation:
		status = http.StatusBadRequest
	case custom_err.KindNotFound:
		status = notFoundStatus
	case custom_err.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
		log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
	}

	if status != http.StatusInternalServerError {
		log.Info("request rejected", slog.String("op", op), slog.String("error", err.Error()))
	}

	response.WriteJSONError(w, log, status, fields)
}

// Register mounts the transaction routes on r. Callers apply authentication to r.
func (h *TransactionHandler) Register(r chi.Router) {
	r.Post("/transactions", h.Create)
	r.Get("/transactions", h.List)
	r.Post("/transactions/update", h.Update)
	r.Get("/transactions/{id}", h.Get)
}
