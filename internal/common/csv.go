// Package common provides the CSV input and output used by batch parsing.
package common

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/fileutils"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/smsparser"

	"github.com/gocarina/gocsv"
)

// OutputRow is one line of a batch output file. Rows that failed to parse
// carry only the input columns, status and error.
type OutputRow struct {
	Name        string `csv:"name"`
	Sender      string `csv:"sender"`
	Status      string `csv:"status"`
	Error       string `csv:"error"`
	Grammar     string `csv:"grammar"`
	Amount      string `csv:"amount"`
	Direction   string `csv:"direction"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Date        string `csv:"date"`
	Account     string `csv:"account"`
	Reference   string `csv:"reference"`
	Merchant    string `csv:"merchant"`
	Bank        string `csv:"bank"`
	Message     string `csv:"message"`
}

// BatchSummary counts the outcomes of a batch conversion.
type BatchSummary struct {
	Total  int
	Parsed int
	Failed int
}

// CSVIO reads and writes batch CSV files with a fixed delimiter.
type CSVIO struct {
	Delimiter rune
	logger    logging.Logger
}

// NewCSVIO creates a CSVIO. A zero delimiter means ','.
func NewCSVIO(delimiter rune, logger logging.Logger) *CSVIO {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVIO{Delimiter: delimiter, logger: logger}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](c *CSVIO, filePath string) ([]TCSVRow, error) {
	c.logger.Debug("Reading CSV file", logging.F(logging.FieldInputFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = c.Delimiter
	reader.FieldsPerRecord = -1

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	c.logger.Debug("Successfully read CSV data", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// ReadSMSFile reads a batch input file with sender and message columns and an
// optional name column. Rows without a name are named after their line number.
func (c *CSVIO) ReadSMSFile(filePath string) ([]smsparser.Sample, error) {
	samples, err := ReadCSVFile[smsparser.Sample](c, filePath)
	if err != nil {
		return nil, err
	}
	for i := range samples {
		if samples[i].Name == "" {
			// Header is line 1.
			samples[i].Name = fmt.Sprintf("row-%d", i+2)
		}
	}
	return samples, nil
}

// ToOutputRow flattens a parse result for CSV output.
func ToOutputRow(r smsparser.SampleResult) OutputRow {
	row := OutputRow{
		Name:    r.Sample.Name,
		Sender:  r.Sample.Sender,
		Message: r.Sample.Message,
		Status:  r.Status(),
	}
	if r.Err != nil {
		row.Error = r.Err.Error()
		return row
	}
	tx := r.Transaction
	row.Grammar = tx.Grammar
	row.Amount = tx.Amount.StringFixed(2)
	row.Direction = tx.Direction.String()
	row.Category = tx.Category.String()
	row.Description = tx.Description
	row.Date = dateutils.ToISODate(tx.Date)
	row.Account = tx.AccountNumberMasked
	row.Reference = tx.ReferenceID
	row.Merchant = tx.Merchant
	row.Bank = tx.BankName
	return row
}

// WriteResultsToCSV writes one row per result, failures included.
func (c *CSVIO) WriteResultsToCSV(results []smsparser.SampleResult, csvFile string) error {
	rows := make([]OutputRow, len(results))
	for i, r := range results {
		rows[i] = ToOutputRow(r)
	}

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(csvFile)); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = c.Delimiter
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	c.logger.Debug("Wrote results to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}

// ConvertFile parses every SMS of inputFile and writes the results to outputFile.
func (c *CSVIO) ConvertFile(ctx context.Context, bp *smsparser.BatchProcessor, inputFile, outputFile string) (BatchSummary, error) {
	if !fileutils.FileExists(inputFile) {
		return BatchSummary{}, fmt.Errorf("input file does not exist: %s", inputFile)
	}

	samples, err := c.ReadSMSFile(inputFile)
	if err != nil {
		return BatchSummary{}, err
	}

	results := bp.ParseAll(ctx, samples)
	summary := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.OK() {
			summary.Parsed++
		} else {
			summary.Failed++
		}
	}

	if err := c.WriteResultsToCSV(results, outputFile); err != nil {
		return summary, fmt.Errorf("error writing results to CSV: %w", err)
	}

	c.logger.Info("Batch conversion completed",
		logging.F(logging.FieldInputFile, inputFile),
		logging.F(logging.FieldOutputFile, outputFile),
		logging.F(logging.FieldCount, summary.Total),
		logging.F("parsed", summary.Parsed),
		logging.F("failed", summary.Failed))
	return summary, nil
}
