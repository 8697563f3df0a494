// Package api exposes SMS ingestion over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"
	"fjacquet/sms-ledger/internal/smsparser"

	"github.com/go-playground/validator/v10"
)

// UserHeader carries the owning user of an ingested SMS.
const UserHeader = "X-User-ID"

// ParseFailureMessage is returned when an SMS cannot be parsed.
const ParseFailureMessage = "Could not parse transaction from SMS"

const maxBodyBytes = 64 << 10

// Ingester stores parsed SMS transactions.
type Ingester interface {
	Ingest(ctx context.Context, userID, message, sender string) (*ingest.Result, error)
	List(ctx context.Context, userID string) ([]models.StoredTransaction, error)
}

// SampleRunner runs diagnostic fixture messages.
type SampleRunner interface {
	RunSamples(samples []smsparser.Sample) []smsparser.SampleResult
}

// ParseRequest is the body of POST /api/sms/parse. Empty fields are left to
// the parser, which reports them as invalid_input.
type ParseRequest struct {
	Message string `json:"message" validate:"max=4096"`
	Sender  string `json:"sender" validate:"max=64"`
}

// ParseResponse is the body of POST /api/sms/parse.
type ParseResponse struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message,omitempty"`
	Reason      string                    `json:"reason,omitempty"`
	Transaction *models.StoredTransaction `json:"transaction,omitempty"`
	Parsed      *models.ParsedTransaction `json:"parsed,omitempty"`
}

// SampleOutcome is one entry of the GET /api/sms/test response.
type SampleOutcome struct {
	Name    string                    `json:"name"`
	Sender  string                    `json:"sender"`
	Message string                    `json:"message"`
	Status  string                    `json:"status"`
	Parsed  *models.ParsedTransaction `json:"parsed,omitempty"`
}

// Handler serves the SMS endpoints.
type Handler struct {
	ingester    Ingester
	samples     SampleRunner
	validate    *validator.Validate
	logger      logging.Logger
	defaultUser string
}

// NewHandler creates a Handler. Requests without a user header are attributed
// to defaultUser.
func NewHandler(ingester Ingester, samples SampleRunner, defaultUser string, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Handler{
		ingester:    ingester,
		samples:     samples,
		validate:    validator.New(),
		logger:      logger,
		defaultUser: defaultUser,
	}
}

// ParseSMS handles POST /api/sms/parse. A message that cannot be parsed is a
// normal 200 response with success=false.
func (h *Handler) ParseSMS(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	userID := h.userID(r)
	res, err := h.ingester.Ingest(r.Context(), userID, req.Message, req.Sender)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusCreated, ParseResponse{
			Success:     true,
			Transaction: res.Stored,
			Parsed:      res.Parsed,
		})
	case parsererror.IsParseFailure(err):
		h.logger.Debug("SMS not parsed",
			logging.F(logging.FieldUserID, userID),
			logging.F(logging.FieldSender, req.Sender),
			logging.F(logging.FieldReason, parsererror.Reason(err)))
		WriteJSON(w, http.StatusOK, ParseResponse{
			Success: false,
			Message: ParseFailureMessage,
			Reason:  parsererror.Reason(err),
		})
	default:
		h.logger.WithError(err).Error("Failed to ingest SMS", logging.F(logging.FieldUserID, userID))
		WriteError(w, http.StatusInternalServerError, "Failed to store transaction")
	}
}

// ListTransactions handles GET /api/sms/transactions.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ingester.List(r.Context(), h.userID(r))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list transactions")
		WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if txs == nil {
		txs = []models.StoredTransaction{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": txs,
	})
}

// TestSamples handles GET /api/sms/test. The response shape is diagnostic only.
func (h *Handler) TestSamples(w http.ResponseWriter, r *http.Request) {
	results := h.samples.RunSamples(smsparser.DefaultSamples())
	out := make([]SampleOutcome, 0, len(results))
	for _, res := range results {
		out = append(out, SampleOutcome{
			Name:    res.Sample.Name,
			Sender:  res.Sample.Sender,
			Message: res.Sample.Message,
			Status:  res.Status(),
			Parsed:  res.Transaction,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": out,
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(UserHeader)); id != "" {
		return id
	}
	return h.defaultUser
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s=%s)", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}
