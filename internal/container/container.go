// Package container provides dependency injection for the sms-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"sync"
	"time"

	"fjacquet/sms-ledger/internal/categorizer"
	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/metrics"
	"fjacquet/sms-ledger/internal/smsparser"
	"fjacquet/sms-ledger/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// Fields are private and only reachable through getters. The transaction
// store is opened on first use so commands that only parse never touch it.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	location    *time.Location
	categorizer *categorizer.Categorizer
	metrics     *metrics.Metrics
	parser      *smsparser.Parser

	storeOnce sync.Once
	store     store.TransactionStore
	storeErr  error
	ingest    *ingest.Service
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rules, err := store.NewRuleStore(cfg.Categorizer.RulesFile, logger).LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	cat := categorizer.New(logger)
	if len(rules) > 0 {
		cat = categorizer.NewWithRules(rules, logger)
	}

	m := metrics.New()

	p := smsparser.New(
		smsparser.WithLogger(logger),
		smsparser.WithLocation(loc),
		smsparser.WithClock(func() time.Time { return time.Now().In(loc) }),
		smsparser.WithCategorizer(cat),
		smsparser.WithObserver(m),
	)

	logger.Debug("Container initialized successfully",
		logging.F("store_driver", cfg.Store.Driver),
		logging.F("timezone", loc.String()),
		logging.F("custom_rules", len(rules) > 0))

	return &Container{
		logger:      logger,
		config:      cfg,
		location:    loc,
		categorizer: cat,
		metrics:     m,
		parser:      p,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLocation returns the parser time zone.
func (c *Container) GetLocation() *time.Location {
	return c.location
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetMetrics returns the Prometheus collectors.
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetParser returns the SMS parser.
func (c *Container) GetParser() *smsparser.Parser {
	return c.parser
}

func (c *Container) openStore() {
	c.storeOnce.Do(func() {
		st, err := store.Open(c.config.Store.Driver, c.config.Store.Path, c.logger)
		if err != nil {
			c.storeErr = fmt.Errorf("failed to open transaction store: %w", err)
			return
		}
		c.store = st
		c.ingest = ingest.NewService(c.parser, st, c.logger)
	})
}

// GetStore returns the transaction store, opening it on first call.
func (c *Container) GetStore() (store.TransactionStore, error) {
	c.openStore()
	return c.store, c.storeErr
}

// GetIngestService returns the ingest service backed by the transaction store.
func (c *Container) GetIngestService() (*ingest.Service, error) {
	c.openStore()
	return c.ingest, c.storeErr
}

// Close releases the transaction store if it was opened.
func (c *Container) Close() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
