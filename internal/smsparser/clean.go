package smsparser

import (
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/textutils"
)

// Fallback descriptions when nothing readable survives cleaning.
const (
	FallbackIncomeDescription  = "Money received"
	FallbackExpenseDescription = "Payment made"
)

func cleanDescription(raw string, direction models.Direction) string {
	if cleaned := textutils.StripUPIReference(raw); cleaned != "" {
		return cleaned
	}
	if direction == models.DirectionIncome {
		return FallbackIncomeDescription
	}
	return FallbackExpenseDescription
}
