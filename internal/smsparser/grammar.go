package smsparser

import (
	"regexp"
)

// Grammar tags, in match order.
const (
	TagBank       = "bank"
	TagSimpleBank = "simple_bank"
	TagUPI        = "upi"
	TagCard       = "card"
	TagOnline     = "online"
)

// Grammar is one SMS template. Capture groups are addressed by name; the role
// lists say which groups feed which output field, most specific first.
type Grammar struct {
	Tag     string
	Pattern *regexp.Regexp

	// DescriptionGroups are trailing-text groups, latest capture first.
	// Ignored when Describe is set.
	DescriptionGroups []string
	// DateGroups are tried in order; the first parseable one wins.
	DateGroups []string
	// ReferenceGroups are tried in order; UPI reference groups come first.
	ReferenceGroups []string
	AccountGroup    string
	MerchantGroups  []string

	// MerchantReject vetoes a hit whose merchant span names an account or
	// card, leaving the message to a later grammar.
	MerchantReject *regexp.Regexp

	// Describe builds the description from the merchant span.
	Describe func(merchant string) string
}

const (
	amountFrag  = `(?:Rs\.?|INR|₹)\s*(?P<amount>[\d,]+(?:\.\d+)?)`
	auxFrag     = `(?:has\s+been\s+|is\s+|was\s+)?`
	dateFrag    = `\d{1,2}-(?:\d{1,2}|[A-Za-z]{3})-\d{2,4}`
	timeFrag    = `\d{1,2}:\d{2}(?::\d{2})?\s*(?:[AP]M)?`
	accountFrag = `(?:A/c|Acct|Account|Ac)\.?\s*(?:No\.?\s*)?[*X]*(?P<account>\d+)`
)

func refFrag(group string) string {
	return `UPI\s*Ref(?:erence)?\b(?:\s*No\b)?\.?\s*[:.#-]?\s*(?P<` + group + `>[A-Za-z0-9]+)`
}

func merchantAsDescription(merchant string) string { return merchant }

func cardDescription(merchant string) string { return "Card payment at " + merchant }

func onlineDescription(merchant string) string { return "Payment to " + merchant }

// grammars is the fixed match order. Richer templates come first so a looser
// template never captures a message a stricter one understands.
var grammars = GrammarSet{
	{
		Tag: TagBank,
		Pattern: regexp.MustCompile(`(?i)` + amountFrag + `\s+` + auxFrag +
			`(?P<verb>credited|debited|withdrawn|spent|paid|received|transferred)\s+` +
			`(?:(?:to|from|in|into|on|at)\s+)?(?:your\s+)?` + accountFrag +
			`\s+on\s+(?P<date>` + dateFrag + `)` +
			`(?:\s+at\s+(?P<time>` + timeFrag + `))?[.,]?\s*` +
			`(?:` + refFrag("ref") + `[.,]?\s*)?` +
			`(?P<desc>.*)`),
		DescriptionGroups: []string{"desc"},
		DateGroups:        []string{"date"},
		ReferenceGroups:   []string{"ref"},
		AccountGroup:      "account",
	},
	{
		Tag: TagSimpleBank,
		Pattern: regexp.MustCompile(`(?i)` + amountFrag + `\s+` + auxFrag +
			`(?P<verb>debited|credited)\b(?P<via>.*?)` + accountFrag +
			`(?P<note>.*?)\s+on\s+(?P<date>` + dateFrag + `)` +
			`(?:\s+(?:at\s+)?(?P<time>` + timeFrag + `))?[.,]?\s*` +
			`(?:` + refFrag("ref") + `[.,]?\s*)?` +
			`(?P<desc>.*)`),
		DescriptionGroups: []string{"desc", "note", "via"},
		DateGroups:        []string{"date"},
		ReferenceGroups:   []string{"ref"},
		AccountGroup:      "account",
	},
	{
		Tag: TagUPI,
		Pattern: regexp.MustCompile(`(?i)` + amountFrag + `\s+` + auxFrag +
			`(?:` +
			// Transfers to or from a person or VPA. The rail marker is optional.
			`(?:sent|received|paid|debited|credited)\s+(?:to|from)\s+(?:VPA\s+)?(?P<merchant>.+?)` +
			`(?:\s+(?:via|using|through|on)\s+UPI\b|[.,]?\s*[(\[-]?\s*` + refFrag("ref") +
			`|\s+on\s+(?P<date>` + dateFrag + `)|[.,](?:\s|$)|\s*$)` +
			`|` +
			// Spends on or at a merchant only count when the UPI rail is named.
			`(?:spent\s+(?:to|from|on|at)|(?:sent|received|paid|debited|credited)\s+(?:on|at))\s+(?:VPA\s+)?` +
			`(?P<spendmerchant>.+?)` +
			`(?:\s+(?:via|using|through|on)\s+UPI\b|[.,]?\s*[(\[-]?\s*` + refFrag("spendref") + `)` +
			`)` +
			`(?:.*?` + refFrag("railref") + `)?`),
		DateGroups:      []string{"date"},
		ReferenceGroups: []string{"ref", "spendref", "railref"},
		MerchantGroups:  []string{"merchant", "spendmerchant"},
		MerchantReject:  regexp.MustCompile(`(?i)\b(?:card|a/c|acct|account)\b`),
		Describe:        merchantAsDescription,
	},
	{
		Tag: TagCard,
		Pattern: regexp.MustCompile(`(?i)` + amountFrag + `\s+` + auxFrag +
			`(?P<verb>spent|charged|debited)\s+(?:on|from|to|using|via|at)\s+(?:your\s+)?` +
			`(?:[A-Za-z]+\s+)*?Card\s*(?:No\.?\s*)?(?:ending\s+(?:with\s+)?)?[*X]*(?P<card>\d+)` +
			`(?:\s+on\s+(?P<carddate>` + dateFrag + `))?` +
			`\s+at\s+(?P<merchant>.+?)` +
			`(?:\s+on\s+(?P<date>` + dateFrag + `))?` +
			`(?:[.,](?:\s|$)|\s*$|\s+Avl|\s+Avbl|\s+Not\s+you)`),
		DateGroups:      []string{"date", "carddate"},
		ReferenceGroups: []string{"ref"},
		AccountGroup:    "card",
		MerchantGroups:  []string{"merchant"},
		Describe:        cardDescription,
	},
	{
		Tag: TagOnline,
		Pattern: regexp.MustCompile(`(?i)Payment\s+of\s+` + amountFrag + `\s+` + auxFrag +
			`(?P<verb>made|received)\s+(?:to|from|at|towards)\s+(?P<merchant>.+?)` +
			`(?:\s+(?:via|using|through)\s+(?P<app>.+?))?` +
			`(?:\s+on\s+(?P<date>` + dateFrag + `))?` +
			`(?:[.,](?:\s|$)|\s*$)`),
		DateGroups:     []string{"date"},
		MerchantGroups: []string{"merchant"},
		Describe:       onlineDescription,
	},
}

// GrammarSet is an ordered list of grammars.
type GrammarSet []Grammar

// Grammars returns the built-in grammars in match order.
func Grammars() GrammarSet {
	out := make(GrammarSet, len(grammars))
	copy(out, grammars)
	return out
}

// Tags lists the grammar tags in order.
func (s GrammarSet) Tags() []string {
	tags := make([]string, len(s))
	for i, g := range s {
		tags[i] = g.Tag
	}
	return tags
}

// Match is a successful grammar hit.
type Match struct {
	Grammar *Grammar
	groups  map[string]string
}

// Group returns the text captured by a named group, or "".
func (m *Match) Group(name string) string {
	if m == nil || name == "" {
		return ""
	}
	return m.groups[name]
}

// Match tries each grammar in order and returns the first hit, or nil.
// There is no scoring: the earliest grammar that matches wins, unless its
// MerchantReject vetoes the captured merchant.
func (s GrammarSet) Match(text string) *Match {
	for i := range s {
		g := &s[i]
		sub := g.Pattern.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		groups := make(map[string]string, len(sub))
		for j, name := range g.Pattern.SubexpNames() {
			if name != "" && j < len(sub) {
				groups[name] = sub[j]
			}
		}
		m := &Match{Grammar: g, groups: groups}
		if g.MerchantReject != nil && g.MerchantReject.MatchString(firstGroup(m, g.MerchantGroups)) {
			continue
		}
		return m
	}
	return nil
}
