package smsparser

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/sms-ledger/internal/currencyutils"
	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/parsererror"
	"fjacquet/sms-ledger/internal/textutils"

	"github.com/shopspring/decimal"
)

// fields is the raw output of a grammar match before classification.
type fields struct {
	amount      decimal.Decimal
	description string
	merchant    string
	account     string
	reference   string
	date        time.Time
}

func extract(m *Match, message string, now time.Time, loc *time.Location, logger logging.Logger) (fields, error) {
	g := m.Grammar

	amount, err := parseAmount(g.Tag, m.Group("amount"))
	if err != nil {
		return fields{}, err
	}

	f := fields{
		amount:   amount,
		merchant: firstGroup(m, g.MerchantGroups),
		account:  textutils.DigitsOnly(m.Group(g.AccountGroup)),
	}

	if g.Describe != nil {
		if f.merchant != "" {
			f.description = g.Describe(f.merchant)
		}
	} else {
		f.description = firstGroup(m, g.DescriptionGroups)
	}

	f.reference = firstGroup(m, g.ReferenceGroups)
	if f.reference == "" {
		f.reference = textutils.FindUPIReference(message)
	}

	f.date = resolveDate(m, g.DateGroups, now, loc, logger)
	return f, nil
}

// parseAmount requires a positive rupee value.
func parseAmount(grammar, raw string) (decimal.Decimal, error) {
	amount, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{
			Parser: grammar,
			Field:  "amount",
			Value:  raw,
			Err:    fmt.Errorf("%w: %v", parsererror.ErrInvalidAmount, err),
		}
	}
	if !currencyutils.IsPositive(amount) {
		return decimal.Zero, &parsererror.ParseError{
			Parser: grammar,
			Field:  "amount",
			Value:  raw,
			Err:    parsererror.ErrInvalidAmount,
		}
	}
	return amount, nil
}

func firstGroup(m *Match, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(m.Group(name)); v != "" {
			return v
		}
	}
	return ""
}

// resolveDate returns the first parseable date group, or now. A captured
// token that is not a real calendar date is logged and skipped.
func resolveDate(m *Match, names []string, now time.Time, loc *time.Location, logger logging.Logger) time.Time {
	for _, name := range names {
		token := m.Group(name)
		if token == "" {
			continue
		}
		if d, ok := dateutils.ParseSMSDate(token, loc); ok {
			return d
		}
		logger.Debug("Unparseable SMS date, using current time",
			logging.F(logging.FieldGrammar, m.Grammar.Tag),
			logging.F("date", token))
	}
	return now
}
