package categorizer

import (
	"regexp"

	"fjacquet/sms-ledger/internal/models"
)

// Rule assigns Category to any text containing one of Keywords.
// Keywords are lower case and matched as plain substrings.
type Rule struct {
	Category models.Category
	Keywords []string
}

// defaultRules is the category table in match order. A text matching keywords
// of two rules always takes the earlier rule.
var defaultRules = []Rule{
	{models.CategoryFood, []string{
		"swiggy", "zomato", "restaurant", "cafe", "food", "pizza", "burger",
		"domino", "mcdonald", "kfc", "starbucks", "dining", "bakery", "grocery",
		"bigbasket", "blinkit", "zepto",
	}},
	{models.CategoryTransport, []string{
		"uber", "ola cabs", "olacabs", "rapido", "irctc", "metro", "petrol",
		"diesel", "fuel", "parking", "fastag", "redbus", "taxi", "railway",
		"flight", "indigo", "makemytrip",
	}},
	{models.CategoryShopping, []string{
		"amazon", "flipkart", "myntra", "ajio", "meesho", "nykaa", "shopping",
		"dmart", "bazaar", "reliance retail", "croma", "decathlon", "ikea",
	}},
	{models.CategoryEntertainment, []string{
		"netflix", "hotstar", "prime video", "spotify", "youtube", "bookmyshow",
		"pvr", "inox", "movie", "cinema", "gaming", "zee5", "sonyliv",
	}},
	{models.CategoryUtilities, []string{
		"electricity", "water bill", "gas bill", "broadband", "recharge",
		"airtel", "jio", "vodafone", "bsnl", "internet", "bill payment",
		"bescom", "tata power",
	}},
	{models.CategoryHealthcare, []string{
		"hospital", "pharmacy", "apollo", "medplus", "clinic", "doctor",
		"medical", "pharmeasy", "1mg", "netmeds", "diagnostic", "health",
	}},
	{models.CategoryEducation, []string{
		"school", "college", "university", "tuition", "course", "udemy",
		"coursera", "byju", "unacademy", "exam fee", "books",
	}},
	{models.CategoryInvestment, []string{
		"mutual fund", "zerodha", "groww", "upstox", "demat", "fixed deposit",
		"investment", "stock",
	}},
	{models.CategoryTransfer, []string{
		"neft", "imps", "rtgs", "fund transfer", "upi transfer", "self transfer",
		"sent to",
	}},
	{models.CategorySalary, []string{
		"salary", "payroll", "wages", "stipend", "bonus",
	}},
}

// Texts that name cash withdrawals or credit products have no category of
// their own yet and are reported as other.
var (
	cashPattern = regexp.MustCompile(`\b(?:atm|cash)\b`)
	loanPattern = regexp.MustCompile(`\b(?:loan|emi|interest)\b`)
)

// DefaultRules returns a copy of the built-in category table.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = Rule{Category: r.Category, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}
