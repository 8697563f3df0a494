// Package selftest runs the built-in sample messages through the parser
package selftest

import (
	"fmt"
	"text/tabwriter"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/currencyutils"
	"fjacquet/sms-ledger/internal/smsparser"

	"github.com/spf13/cobra"
)

var samplesFile string

// Cmd represents the selftest command
var Cmd = &cobra.Command{
	Use:   "selftest",
	Short: "Parse the sample messages and report the outcome",
	Long: `Parse the built-in sample SMS, or those of a YAML file, and print one line
per sample. The command fails when any sample does not parse.

Example:
  sms-ledger selftest --samples samples.yaml`,
	RunE: selftestFunc,
}

func init() {
	Cmd.Flags().StringVar(&samplesFile, "samples", "", "YAML file of samples (default built-in samples)")
}

func selftestFunc(cmd *cobra.Command, args []string) error {
	c, err := root.MustContainer()
	if err != nil {
		return err
	}

	samples := smsparser.DefaultSamples()
	if samplesFile != "" {
		samples, err = smsparser.LoadSamples(samplesFile)
		if err != nil {
			return err
		}
	}

	results := c.GetParser().RunSamples(samples)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SAMPLE\tSTATUS\tGRAMMAR\tAMOUNT\tDIRECTION\tCATEGORY\tDESCRIPTION")
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			fmt.Fprintf(tw, "%s\t%s\t\t\t\t\t\n", r.Sample.Name, r.Status())
			continue
		}
		tx := r.Transaction
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Sample.Name, r.Status(), tx.Grammar, currencyutils.FormatAmount(tx.Amount),
			tx.Direction, tx.Category, tx.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d samples failed to parse", failed, len(results))
	}
	return nil
}
