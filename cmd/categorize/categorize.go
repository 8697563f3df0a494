// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/models"

	"github.com/spf13/cobra"
)

var (
	description string
	merchant    string
	listAll     bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a transaction description",
	Long: `Categorize a transaction description and merchant with the keyword table.

Prints the category together with the keyword or rule that decided it.
Use --list to print every category the table can produce.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name (optional)")
	Cmd.Flags().BoolVarP(&listAll, "list", "l", false, "List the known categories")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if listAll {
		for _, c := range models.AllCategories() {
			fmt.Fprintln(out, c)
		}
		return nil
	}

	if description == "" && merchant == "" {
		return fmt.Errorf("description or merchant is required for categorization")
	}

	c, err := root.MustContainer()
	if err != nil {
		return err
	}

	m := c.GetCategorizer().Explain(description, merchant)
	root.GetLogrusAdapter().Debug("Categorize command called")

	fmt.Fprintf(out, "Category: %s\n", m.Category)
	fmt.Fprintf(out, "Source:   %s\n", m.Source)
	if m.Keyword != "" {
		fmt.Fprintf(out, "Keyword:  %s\n", m.Keyword)
	}
	return nil
}
