// Package categorizer assigns a category to a parsed SMS from its description
// and merchant text using an ordered keyword table.
package categorizer

import (
	"strings"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// Match sources reported by Explain.
const (
	SourceKeyword = "keyword"
	SourceCash    = "cash"
	SourceLoan    = "loan"
	SourceDefault = "default"
)

// Match explains how a category was chosen.
type Match struct {
	Category models.Category
	Keyword  string
	Source   string
}

// Categorizer is safe for concurrent use; its table is never modified after
// construction.
type Categorizer struct {
	rules  []Rule
	logger logging.Logger
}

// New creates a Categorizer over the built-in table.
func New(logger logging.Logger) *Categorizer {
	return NewWithRules(defaultRules, logger)
}

// NewWithRules creates a Categorizer over a custom table. Keywords are
// lower-cased; rules naming a category outside the closed set are skipped.
func NewWithRules(rules []Rule, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	own := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !r.Category.Valid() || r.Category == models.CategoryOther {
			logger.Warn("Skipping category rule",
				logging.F(logging.FieldCategory, r.Category))
			continue
		}
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		own = append(own, Rule{Category: r.Category, Keywords: kws})
	}
	return &Categorizer{rules: own, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (c *Categorizer) Name() string {
	return "Keyword"
}

// Categorize returns the category for a description/merchant pair. It never
// returns an empty category.
func (c *Categorizer) Categorize(description, merchant string) models.Category {
	return c.Explain(description, merchant).Category
}

// Explain is Categorize with the reason attached.
func (c *Categorizer) Explain(description, merchant string) Match {
	text := strings.ToLower(description + " " + merchant)

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				c.logger.Debug("Transaction categorized using keyword matching",
					logging.F("strategy", c.Name()),
					logging.F(logging.FieldKeyword, kw),
					logging.F(logging.FieldCategory, rule.Category))
				return Match{Category: rule.Category, Keyword: kw, Source: SourceKeyword}
			}
		}
	}

	switch {
	case cashPattern.MatchString(text):
		return Match{Category: models.CategoryOther, Source: SourceCash}
	case loanPattern.MatchString(text):
		return Match{Category: models.CategoryOther, Source: SourceLoan}
	}
	return Match{Category: models.CategoryOther, Source: SourceDefault}
}
