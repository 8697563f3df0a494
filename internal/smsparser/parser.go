// Package smsparser turns Indian bank SMS alerts into ParsedTransaction
// records. A Parser holds only read-only grammar and keyword tables and is
// safe for concurrent use.
package smsparser

import (
	"strings"
	"time"

	"fjacquet/sms-ledger/internal/banks"
	"fjacquet/sms-ledger/internal/categorizer"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"
	"fjacquet/sms-ledger/internal/textutils"
)

// GrammarNone labels outcomes where no grammar was selected.
const GrammarNone = "none"

const logSnippetLength = 60

// Observer receives one notification per Parse call.
type Observer interface {
	ObserveParse(grammar, outcome string)
}

// Parser is the SMS parsing orchestrator.
type Parser struct {
	logger      logging.Logger
	clock       func() time.Time
	location    *time.Location
	categorizer *categorizer.Categorizer
	grammars    GrammarSet
	observer    Observer
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger logging.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock sets the source of "now" used when a message carries no usable date.
func WithClock(clock func() time.Time) Option {
	return func(p *Parser) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLocation sets the time zone SMS dates are interpreted in. Without it the
// clock's location is used.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		p.location = loc
	}
}

// WithCategorizer replaces the default keyword categorizer.
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(p *Parser) {
		if c != nil {
			p.categorizer = c
		}
	}
}

// WithObserver registers a hook notified after every Parse.
func WithObserver(o Observer) Option {
	return func(p *Parser) {
		p.observer = o
	}
}

// New creates a Parser with the built-in grammars.
func New(opts ...Option) *Parser {
	p := &Parser{
		clock:    time.Now,
		grammars: Grammars(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.NewLogrusAdapter("info", "text")
	}
	if p.categorizer == nil {
		p.categorizer = categorizer.New(p.logger)
	}
	return p
}

// Parse extracts a transaction from one SMS. It returns either a record or an
// error that unwraps to one of the parsererror sentinels, never both.
func (p *Parser) Parse(message, sender string) (tx *models.ParsedTransaction, err error) {
	grammar := GrammarNone
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Recovered from panic while parsing SMS",
				logging.F(logging.FieldSender, sender),
				logging.F(logging.FieldGrammar, grammar),
				logging.F("panic", r))
			tx, err = nil, &parsererror.InternalError{Recovered: r}
		}
		p.notify(grammar, err)
	}()

	if strings.TrimSpace(message) == "" {
		p.logger.Warn("Rejected SMS with empty message", logging.F(logging.FieldSender, sender))
		return nil, &parsererror.InputError{Field: "message", Reason: "is empty"}
	}
	if strings.TrimSpace(sender) == "" {
		p.logger.Warn("Rejected SMS with empty sender",
			logging.F("message", textutils.Snippet(message, logSnippetLength)))
		return nil, &parsererror.InputError{Field: "sender", Reason: "is empty"}
	}

	text := textutils.CollapseWhitespace(message)
	m := p.grammars.Match(text)
	if m == nil {
		p.logger.Debug("No grammar matched SMS",
			logging.F(logging.FieldSender, sender),
			logging.F("message", textutils.Snippet(text, logSnippetLength)))
		return nil, parsererror.ErrNoMatch
	}
	grammar = m.Grammar.Tag

	now := p.clock()
	loc := p.location
	if loc == nil {
		loc = now.Location()
	}

	f, err := extract(m, text, now, loc, p.logger)
	if err != nil {
		p.logger.Debug("Matched SMS rejected",
			logging.F(logging.FieldSender, sender),
			logging.F(logging.FieldGrammar, grammar),
			logging.F(logging.FieldReason, parsererror.Reason(err)),
			logging.F(logging.FieldError, err.Error()))
		return nil, err
	}

	direction := classifyDirection(text)
	description := cleanDescription(f.description, direction)

	tx = &models.ParsedTransaction{
		Amount:              f.amount,
		Direction:           direction,
		Category:            p.categorizer.Categorize(description, f.merchant),
		Description:         description,
		Date:                f.date,
		AccountNumberMasked: f.account,
		ReferenceID:         f.reference,
		Merchant:            f.merchant,
		BankName:            banks.Resolve(sender),
		Grammar:             grammar,
	}

	p.logger.Debug("Parsed SMS",
		logging.F(logging.FieldSender, sender),
		logging.F(logging.FieldBank, tx.BankName),
		logging.F(logging.FieldGrammar, grammar),
		logging.F(logging.FieldDirection, tx.Direction),
		logging.F(logging.FieldCategory, tx.Category))
	return tx, nil
}

// Grammars returns the grammars this parser tries, in order.
func (p *Parser) Grammars() GrammarSet {
	out := make(GrammarSet, len(p.grammars))
	copy(out, p.grammars)
	return out
}

func (p *Parser) notify(grammar string, err error) {
	if p.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Parse observer panicked", logging.F("panic", r))
		}
	}()
	p.observer.ObserveParse(grammar, parsererror.Reason(err))
}
