package smsparser

import (
	"fmt"
	"os"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// Sample is one SMS fixture.
type Sample struct {
	Name    string `yaml:"name" csv:"name"`
	Sender  string `yaml:"sender" csv:"sender"`
	Message string `yaml:"message" csv:"message"`
}

// SampleResult pairs a sample with its parse outcome. Exactly one of
// Transaction and Err is set.
type SampleResult struct {
	Sample      Sample
	Transaction *models.ParsedTransaction
	Err         error
}

// OK reports whether the sample parsed.
func (r SampleResult) OK() bool {
	return r.Err == nil && r.Transaction != nil
}

// Status is "ok" or the failure reason.
func (r SampleResult) Status() string {
	return parsererror.Reason(r.Err)
}

var defaultSamples = []Sample{
	{
		Name:    "hdfc-upi-debit",
		Sender:  "HDFCBK",
		Message: "Rs.1500.00 debited from A/c **1234 on 09-Aug-25. UPI Ref 123456789. Swiggy Food Order",
	},
	{
		Name:    "icici-salary-credit",
		Sender:  "ICICIB",
		Message: "Rs.50000.00 credited to your A/c **5678 on 08-Aug-25 at 02:30PM. Salary Transfer from Company Ltd.",
	},
	{
		Name:    "paytm-upi-spend",
		Sender:  "PAYTM",
		Message: "Rs.299.00 spent on Netflix subscription via UPI. UPI Ref: 987654321",
	},
	{
		Name:    "online-payment",
		Sender:  "GOOGLEPAY",
		Message: "Payment of Rs.2500.00 made to Amazon via Google Pay on 07-Aug-25",
	},
}

// DefaultSamples returns the built-in fixture messages.
func DefaultSamples() []Sample {
	out := make([]Sample, len(defaultSamples))
	copy(out, defaultSamples)
	return out
}

type sampleFile struct {
	Samples []Sample `yaml:"samples"`
}

// LoadSamples reads fixtures from a YAML file of the form
//
//	samples:
//	  - name: hdfc
//	    sender: HDFCBK
//	    message: "Rs.100 debited from ..."
func LoadSamples(path string) ([]Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples file %s: %w", path, err)
	}
	var f sampleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode samples file %s: %w", path, err)
	}
	for i := range f.Samples {
		if f.Samples[i].Name == "" {
			f.Samples[i].Name = fmt.Sprintf("sample-%d", i+1)
		}
	}
	return f.Samples, nil
}

// RunSamples parses each sample in order and logs the outcome.
func (p *Parser) RunSamples(samples []Sample) []SampleResult {
	results := make([]SampleResult, 0, len(samples))
	for _, s := range samples {
		tx, err := p.Parse(s.Message, s.Sender)
		r := SampleResult{Sample: s, Transaction: tx, Err: err}
		results = append(results, r)

		if r.OK() {
			p.logger.Info("Sample parsed",
				logging.F("sample", s.Name),
				logging.F(logging.FieldGrammar, tx.Grammar),
				logging.F("amount", tx.Amount.StringFixed(2)),
				logging.F(logging.FieldDirection, tx.Direction),
				logging.F(logging.FieldCategory, tx.Category))
			continue
		}
		p.logger.Info("Sample not parsed",
			logging.F("sample", s.Name),
			logging.F(logging.FieldStatus, r.Status()))
	}
	return results
}
