package smsparser

import (
	"strings"

	"fjacquet/sms-ledger/internal/models"
)

var (
	creditWords = []string{"credited", "received", "refund"}
	debitWords  = []string{"debited", "spent", "paid", "withdrawn", "charged"}
)

// classifyDirection reads the whole message. A message is income only when it
// names a credit and no debit; anything ambiguous is an expense. Keywords match
// as substrings, so "prepaid" counts as a debit and "refunded" as a credit.
func classifyDirection(message string) models.Direction {
	lower := strings.ToLower(message)
	if containsAny(lower, creditWords) && !containsAny(lower, debitWords) {
		return models.DirectionIncome
	}
	return models.DirectionExpense
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
