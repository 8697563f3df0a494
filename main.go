// Command sms-ledger parses Indian bank SMS alerts into categorized transactions.
package main

import (
	"fmt"
	"os"

	"fjacquet/sms-ledger/cmd/batch"
	"fjacquet/sms-ledger/cmd/categorize"
	"fjacquet/sms-ledger/cmd/parse"
	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/cmd/selftest"
	"fjacquet/sms-ledger/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(selftest.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
