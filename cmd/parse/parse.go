// Package parse handles parsing of a single SMS from the command line
package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/spf13/cobra"
)

var (
	sender string
	save   bool
	userID string
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse [message]",
	Short: "Parse one SMS into a transaction",
	Long: `Parse a single bank SMS and print the transaction as JSON.

The message is taken from the arguments, or read from stdin when no argument
is given. With --save the transaction is also stored for --user.

Example:
  sms-ledger parse -s HDFCBK "Rs.1500.00 debited from A/c **1234 on 09-Aug-25. UPI Ref 123456789. Swiggy Food Order"`,
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&sender, "sender", "s", "", "SMS sender ID, e.g. HDFCBK or VM-ICICIB")
	Cmd.Flags().BoolVar(&save, "save", false, "Store the parsed transaction")
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "Owner of the stored transaction (default server.default_user)")
	_ = Cmd.MarkFlagRequired("sender")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	c, err := root.MustContainer()
	if err != nil {
		return err
	}

	message, err := readMessage(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var out interface{}
	if save {
		svc, err := c.GetIngestService()
		if err != nil {
			return err
		}
		user := userID
		if user == "" {
			user = c.GetConfig().Server.DefaultUser
		}
		res, err := svc.Ingest(cmd.Context(), user, message, sender)
		if err != nil {
			return describe(err)
		}
		out = res.Stored
	} else {
		tx, err := c.GetParser().Parse(message, sender)
		if err != nil {
			return describe(err)
		}
		out = tx
	}

	return writeJSON(cmd.OutOrStdout(), out)
}

func readMessage(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read message from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func describe(err error) error {
	if parsererror.IsParseFailure(err) {
		return fmt.Errorf("could not parse SMS (%s): %w", parsererror.Reason(err), err)
	}
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

