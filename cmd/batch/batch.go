// Package batch handles batch processing of SMS files
package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/common"
	"fjacquet/sms-ledger/internal/fileutils"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/smsparser"

	"github.com/spf13/cobra"
)

var (
	inputPath  string
	outputPath string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process SMS CSV files",
	Long: `Batch process CSV files of SMS and write one result CSV per input.

Each input file needs sender and message columns and may carry a name column.
Every input row produces one output row with its parse status, so failures
stay visible next to the transactions that parsed.

When -i names a directory, every .csv file in it is converted into the -o
directory.

Example:
  sms-ledger batch -i sms.csv -o transactions.csv
  sms-ledger batch -i inbox/ -o parsed/ --csv-delimiter ';'`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input CSV file or directory")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output CSV file or directory")
	Cmd.Flags().String("csv-delimiter", ",", "CSV field delimiter")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	if inputPath == "" || outputPath == "" {
		return fmt.Errorf("input and output must be specified")
	}

	c, err := root.MustContainer()
	if err != nil {
		return err
	}
	logger := c.GetLogger()

	csvio := common.NewCSVIO(c.GetConfig().DelimiterRune(), logger)
	bp := smsparser.NewBatchProcessor(c.GetParser(), logger)

	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var total common.BatchSummary
	if info.IsDir() {
		total, err = convertDir(cmd, csvio, bp, logger)
	} else {
		total, err = csvio.ConvertFile(cmd.Context(), bp, inputPath, outputPath)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d messages: %d parsed, %d failed\n",
		total.Total, total.Parsed, total.Failed)
	return nil
}

func convertDir(cmd *cobra.Command, csvio *common.CSVIO, bp *smsparser.BatchProcessor, logger logging.Logger) (common.BatchSummary, error) {
	var total common.BatchSummary

	files, err := fileutils.ListFilesWithExtension(inputPath, ".csv")
	if err != nil {
		return total, fmt.Errorf("failed to read input directory: %w", err)
	}

	if err := fileutils.EnsureDirectoryExists(outputPath); err != nil {
		return total, fmt.Errorf("failed to create output directory: %w", err)
	}

	converted := 0
	for _, in := range files {
		out := filepath.Join(outputPath, fileutils.SiblingName(in, "-parsed"))

		s, err := csvio.ConvertFile(cmd.Context(), bp, in, out)
		if err != nil {
			logger.WithError(err).Error("Failed to convert file",
				logging.F(logging.FieldInputFile, in))
			continue
		}
		total.Total += s.Total
		total.Parsed += s.Parsed
		total.Failed += s.Failed
		converted++
	}

	if converted == 0 {
		logger.Warn("No CSV files converted in input directory",
			logging.F(logging.FieldInputFile, inputPath))
	}
	return total, nil
}
