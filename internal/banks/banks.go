// Package banks resolves SMS sender IDs to human-readable bank names.
package banks

import (
	"strings"

	"fjacquet/sms-ledger/internal/models"
)

// senderNames maps registered SMS sender codes to bank names. Read-only.
var senderNames = map[string]string{
	"HDFCBK": "HDFC Bank",
	"ICICIB": "ICICI Bank",
	"SBIINB": "State Bank of India",
	"SBMSMS": "State Bank of India",
	"PAYTM":  "Paytm Payments Bank",
	"AXISBK": "Axis Bank",
	"KOTAKB": "Kotak Mahindra Bank",
	"PNBSMS": "Punjab National Bank",
	"IOBNET": "Indian Overseas Bank",
	"UNIONB": "Union Bank of India",
}

// Resolve returns the bank name for an SMS sender ID, or models.UnknownBank.
//
// Operator-prefixed headers such as "VM-HDFCBK" or "AD-ICICIB-S" are reduced to
// the registered code before the lookup.
func Resolve(sender string) string {
	if name, ok := senderNames[Code(sender)]; ok {
		return name
	}
	return models.UnknownBank
}

// Known reports whether the sender maps to a bank.
func Known(sender string) bool {
	_, ok := senderNames[Code(sender)]
	return ok
}

// Code extracts the registered sender code from an SMS header.
func Code(sender string) string {
	code := strings.ToUpper(strings.TrimSpace(sender))
	if _, ok := senderNames[code]; ok {
		return code
	}
	parts := strings.Split(code, "-")
	if len(parts) >= 2 && len(parts[0]) == 2 {
		return parts[1]
	}
	return code
}

// Codes returns the known sender codes.
func Codes() []string {
	codes := make([]string, 0, len(senderNames))
	for code := range senderNames {
		codes = append(codes, code)
	}
	return codes
}
