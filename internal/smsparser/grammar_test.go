package smsparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammars_Order(t *testing.T) {
	assert.Equal(t,
		[]string{TagBank, TagSimpleBank, TagUPI, TagCard, TagOnline},
		Grammars().Tags())
}

func TestGrammars_ReturnsCopy(t *testing.T) {
	set := Grammars()
	set[0].Tag = "changed"
	assert.Equal(t, TagBank, Grammars()[0].Tag)
}

func TestGrammarSet_Match(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tag    string
		groups map[string]string
	}{
		{
			name: "bank with time",
			text: "Rs.50000.00 credited to your A/c **5678 on 08-Aug-25 at 02:30PM. Salary Transfer from Company Ltd.",
			tag:  TagBank,
			groups: map[string]string{
				"amount": "50000.00", "verb": "credited", "account": "5678",
				"date": "08-Aug-25", "time": "02:30PM", "desc": "Salary Transfer from Company Ltd.",
			},
		},
		{
			name: "upi with rail reference",
			text: "Rs.299.00 spent on Netflix subscription via UPI. UPI Ref: 987654321",
			tag:  TagUPI,
			groups: map[string]string{
				"amount": "299.00", "spendmerchant": "Netflix subscription", "merchant": "",
				"spendref": "", "railref": "987654321",
			},
		},
		{
			name: "upi with inline reference",
			text: "Rs.250.00 paid to Zomato. UPI Ref 4455",
			tag:  TagUPI,
			groups: map[string]string{
				"merchant": "Zomato", "ref": "4455",
			},
		},
		{
			name:   "upi send without rail marker",
			text:   "Rs.500 sent to Ramesh Kumar",
			tag:    TagUPI,
			groups: map[string]string{"amount": "500", "merchant": "Ramesh Kumar", "ref": "", "railref": ""},
		},
		{
			name:   "upi receive without rail marker",
			text:   "Rs.500 received from Ramesh Kumar",
			tag:    TagUPI,
			groups: map[string]string{"merchant": "Ramesh Kumar"},
		},
		{
			name:   "upi payment ending in a date",
			text:   "Rs.500.00 paid to Ramesh on 09-08-25. UPI Ref 7788",
			tag:    TagUPI,
			groups: map[string]string{"merchant": "Ramesh", "date": "09-08-25", "railref": "7788"},
		},
		{
			name: "card debit is not taken by upi",
			text: "Rs.640.00 debited from your HDFC Bank Credit Card ending 1234 at Uber.",
			tag:  TagCard,
			groups: map[string]string{
				"amount": "640.00", "card": "1234", "merchant": "Uber",
			},
		},
		{
			name: "online with app",
			text: "Payment of Rs.2500.00 made to Amazon via Google Pay on 07-Aug-25",
			tag:  TagOnline,
			groups: map[string]string{
				"amount": "2500.00", "merchant": "Amazon", "app": "Google Pay", "date": "07-Aug-25",
			},
		},
		{
			name: "rupee sign",
			text: "₹ 75 debited from Acct XX42 on 3-1-2025. Chai",
			tag:  TagBank,
			groups: map[string]string{
				"amount": "75", "account": "42", "date": "3-1-2025", "desc": "Chai",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Grammars().Match(tt.text)
			require.NotNil(t, m)
			assert.Equal(t, tt.tag, m.Grammar.Tag)
			for name, want := range tt.groups {
				assert.Equal(t, want, m.Group(name), "group %s", name)
			}
		})
	}
}

func TestGrammarSet_NoMatch(t *testing.T) {
	assert.Nil(t, Grammars().Match("Your OTP is 1234"))
	assert.Nil(t, Grammars().Match(""))
	assert.Nil(t, Grammars().Match("Rs.299.00 spent on Netflix subscription"))
	assert.Nil(t, Grammars().Match("Rs.500 debited from A/c **1234."))
}

func TestMatch_GroupOnNil(t *testing.T) {
	var m *Match
	assert.Equal(t, "", m.Group("amount"))
}

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Rs.10 credited to your account", "income"},
		{"Rs.10 RECEIVED from Ravi", "income"},
		{"Refund processed for order 12", "income"},
		{"Amount refunded to card", "income"},
		{"Rs.10 debited and credited back", "expense"},
		{"Payment of Rs.10 made to Amazon", "expense"},
		{"Rs.10 spent on card", "expense"},
		{"Rs.10 charged", "expense"},
		{"Rs.10 withdrawn at ATM", "expense"},
		{"prepaid recharge received", "expense"},
		{"Rs.100 credited to A/c **1234 on 09-08-25. prepaid refund", "expense"},
		{"Cashback REFUNDED", "income"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyDirection(tt.text).String())
		})
	}
}
