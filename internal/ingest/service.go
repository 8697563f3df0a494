// Package ingest parses SMS messages and persists the resulting transactions.
package ingest

import (
	"context"
	"fmt"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/store"
)

// SMSParser is the parsing dependency of the Service.
type SMSParser interface {
	Parse(message, sender string) (*models.ParsedTransaction, error)
}

// Result is the outcome of a successful ingest.
type Result struct {
	Parsed *models.ParsedTransaction
	Stored *models.StoredTransaction
}

// Service turns SMS messages into stored transactions.
type Service struct {
	parser SMSParser
	store  store.TransactionStore
	logger logging.Logger
	clock  func() time.Time
}

// NewService creates an ingest Service.
func NewService(parser SMSParser, st store.TransactionStore, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Service{parser: parser, store: st, logger: logger, clock: time.Now}
}

// Ingest parses message and saves the transaction for userID. Parser
// failures are returned unchanged so callers can classify them with
// errors.Is against the parsererror sentinels; store failures are wrapped.
func (s *Service) Ingest(ctx context.Context, userID, message, sender string) (*Result, error) {
	parsed, err := s.parser.Parse(message, sender)
	if err != nil {
		return nil, err
	}

	stored := models.NewStoredTransaction(userID, *parsed, s.clock())
	if err := s.store.Save(ctx, stored); err != nil {
		s.logger.WithError(err).Error("Failed to save transaction",
			logging.F(logging.FieldUserID, userID),
			logging.F(logging.FieldSender, sender))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info("Transaction ingested",
		logging.F(logging.FieldTransaction, stored.ID),
		logging.F(logging.FieldUserID, userID),
		logging.F(logging.FieldBank, parsed.BankName),
		logging.F(logging.FieldCategory, parsed.Category))
	return &Result{Parsed: parsed, Stored: stored}, nil
}

// List returns the stored transactions of userID.
func (s *Service) List(ctx context.Context, userID string) ([]models.StoredTransaction, error) {
	txs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
