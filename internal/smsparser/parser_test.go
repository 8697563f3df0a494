package smsparser

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

var frozenNow = time.Date(2025, time.August, 15, 10, 30, 0, 0, ist)

func frozenClock() time.Time { return frozenNow }

func newTestParser(t *testing.T, opts ...Option) (*Parser, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	all := append([]Option{WithLogger(logger), WithClock(frozenClock)}, opts...)
	return New(all...), logger
}

func TestParse_FixtureScenarios(t *testing.T) {
	p, _ := newTestParser(t)

	tests := []struct {
		name        string
		message     string
		sender      string
		amount      string
		direction   models.Direction
		category    models.Category
		bank        string
		grammar     string
		description string
		merchant    string
		account     string
		reference   string
		date        string
	}{
		{
			name:        "hdfc upi debit",
			message:     "Rs.1500.00 debited from A/c **1234 on 09-Aug-25. UPI Ref 123456789. Swiggy Food Order",
			sender:      "HDFCBK",
			amount:      "1500",
			direction:   models.DirectionExpense,
			category:    models.CategoryFood,
			bank:        "HDFC Bank",
			grammar:     TagBank,
			description: "Swiggy Food Order",
			account:     "1234",
			reference:   "123456789",
			date:        "2025-08-09",
		},
		{
			name:        "icici salary credit",
			message:     "Rs.50000.00 credited to your A/c **5678 on 08-Aug-25 at 02:30PM. Salary Transfer from Company Ltd.",
			sender:      "ICICIB",
			amount:      "50000",
			direction:   models.DirectionIncome,
			category:    models.CategorySalary,
			bank:        "ICICI Bank",
			grammar:     TagBank,
			description: "Salary Transfer from Company Ltd",
			account:     "5678",
			date:        "2025-08-08",
		},
		{
			name:        "paytm upi spend",
			message:     "Rs.299.00 spent on Netflix subscription via UPI. UPI Ref: 987654321",
			sender:      "PAYTM",
			amount:      "299",
			direction:   models.DirectionExpense,
			category:    models.CategoryEntertainment,
			bank:        "Paytm Payments Bank",
			grammar:     TagUPI,
			description: "Netflix subscription",
			merchant:    "Netflix subscription",
			reference:   "987654321",
			date:        "2025-08-15",
		},
		{
			name:        "online payment from unknown sender",
			message:     "Payment of Rs.2500.00 made to Amazon via Google Pay on 07-Aug-25",
			sender:      "GOOGLEPAY",
			amount:      "2500",
			direction:   models.DirectionExpense,
			category:    models.CategoryShopping,
			bank:        models.UnknownBank,
			grammar:     TagOnline,
			description: "Payment to Amazon",
			merchant:    "Amazon",
			date:        "2025-08-07",
		},
		{
			name:        "credit card spend",
			message:     "Rs.1,250.50 spent on ICICI Bank Credit Card XX4321 at Uber on 05-09-25.",
			sender:      "ICICIB",
			amount:      "1250.50",
			direction:   models.DirectionExpense,
			category:    models.CategoryTransport,
			bank:        "ICICI Bank",
			grammar:     TagCard,
			description: "Card payment at Uber",
			merchant:    "Uber",
			account:     "4321",
			date:        "2025-09-05",
		},
		{
			name:        "card date before merchant",
			message:     "INR 232.42 spent on ICICI Bank Card XX0000 on 04-Mar-23 at Amazon. Avl Lmt: INR 1,00,000",
			sender:      "ICICIB",
			amount:      "232.42",
			direction:   models.DirectionExpense,
			category:    models.CategoryShopping,
			bank:        "ICICI Bank",
			grammar:     TagCard,
			description: "Card payment at Amazon",
			merchant:    "Amazon",
			account:     "0000",
			date:        "2023-03-04",
		},
		{
			name:        "simple bank with note before date",
			message:     "Rs.500.00 debited from A/c XX1234 to VPA abc@ybl on 01-02-25. UPI Ref 4455.",
			sender:      "AD-HDFCBK",
			amount:      "500",
			direction:   models.DirectionExpense,
			category:    models.CategoryOther,
			bank:        "HDFC Bank",
			grammar:     TagSimpleBank,
			description: "to VPA abc@ybl",
			account:     "1234",
			reference:   "4455",
			date:        "2025-02-01",
		},
		{
			name:        "upi credit",
			message:     "Rs.1,200.00 received from Rahul Sharma via UPI. UPI Ref 778899",
			sender:      "SBIINB",
			amount:      "1200",
			direction:   models.DirectionIncome,
			category:    models.CategoryOther,
			bank:        "State Bank of India",
			grammar:     TagUPI,
			description: "Rahul Sharma",
			merchant:    "Rahul Sharma",
			reference:   "778899",
			date:        "2025-08-15",
		},
		{
			name:        "upi send to a person",
			message:     "Rs.500 sent to Ramesh Kumar",
			sender:      "HDFCBK",
			amount:      "500",
			direction:   models.DirectionExpense,
			category:    models.CategoryOther,
			bank:        "HDFC Bank",
			grammar:     TagUPI,
			description: "Ramesh Kumar",
			merchant:    "Ramesh Kumar",
			date:        "2025-08-15",
		},
		{
			name:        "upi receive from a person",
			message:     "Rs.500 received from Ramesh Kumar",
			sender:      "HDFCBK",
			amount:      "500",
			direction:   models.DirectionIncome,
			category:    models.CategoryOther,
			bank:        "HDFC Bank",
			grammar:     TagUPI,
			description: "Ramesh Kumar",
			merchant:    "Ramesh Kumar",
			date:        "2025-08-15",
		},
		{
			name:        "paytm payment to a person",
			message:     "Rs.500.00 paid to Ramesh",
			sender:      "PAYTM",
			amount:      "500",
			direction:   models.DirectionExpense,
			category:    models.CategoryOther,
			bank:        "Paytm Payments Bank",
			grammar:     TagUPI,
			description: "Ramesh",
			merchant:    "Ramesh",
			date:        "2025-08-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := p.Parse(tt.message, tt.sender)
			require.NoError(t, err)
			require.NotNil(t, tx)

			assert.True(t, decimal.RequireFromString(tt.amount).Equal(tx.Amount),
				"amount: want %s, got %s", tt.amount, tx.Amount)
			assert.Equal(t, tt.direction, tx.Direction)
			assert.Equal(t, tt.category, tx.Category)
			assert.Equal(t, tt.bank, tx.BankName)
			assert.Equal(t, tt.grammar, tx.Grammar)
			assert.Equal(t, tt.description, tx.Description)
			assert.Equal(t, tt.merchant, tx.Merchant)
			assert.Equal(t, tt.account, tx.AccountNumberMasked)
			assert.Equal(t, tt.reference, tx.ReferenceID)
			assert.Equal(t, tt.date, tx.Date.Format("2006-01-02"))
		})
	}
}

func TestParse_InvalidInput(t *testing.T) {
	p, logger := newTestParser(t)

	tests := []struct {
		name    string
		message string
		sender  string
		field   string
	}{
		{"empty message", "", "HDFCBK", "message"},
		{"whitespace message", "  \t\n ", "HDFCBK", "message"},
		{"empty sender", "Rs.100 debited from A/c XX1 on 01-01-25", "", "sender"},
		{"whitespace sender", "Rs.100 debited from A/c XX1 on 01-01-25", "   ", "sender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger.Clear()
			tx, err := p.Parse(tt.message, tt.sender)
			assert.Nil(t, tx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, parsererror.ErrInvalidInput))

			var inputErr *parsererror.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.field, inputErr.Field)
			assert.Len(t, logger.GetEntriesByLevel("WARN"), 1)
		})
	}
}

func TestParse_NoMatch(t *testing.T) {
	p, logger := newTestParser(t)

	for _, msg := range []string{
		"Your OTP for login is 482913. Do not share it with anyone.",
		"Rs.500 debited",
		"Dear customer, your KYC is pending.",
	} {
		tx, err := p.Parse(msg, "HDFCBK")
		assert.Nil(t, tx)
		assert.True(t, errors.Is(err, parsererror.ErrNoMatch), msg)
	}
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
	assert.Empty(t, logger.GetEntriesByLevel("ERROR"))
}

func TestParse_AmountGate(t *testing.T) {
	p, _ := newTestParser(t)

	tests := []struct {
		name    string
		message string
	}{
		{"separators only", "Rs.,, debited from A/c **1234 on 01-02-25"},
		{"zero amount", "Rs.0.00 debited from A/c **1234 on 01-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := p.Parse(tt.message, "HDFCBK")
			assert.Nil(t, tx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, parsererror.ErrInvalidAmount))
			assert.False(t, errors.Is(err, parsererror.ErrNoMatch))

			var parseErr *parsererror.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "amount", parseErr.Field)
			assert.Equal(t, TagBank, parseErr.Parser)
		})
	}
}

func TestParse_DirectionIsConservative(t *testing.T) {
	p, _ := newTestParser(t)

	tx, err := p.Parse("Rs.100.00 debited from A/c **1234 on 01-02-25. Refund credited for order", "HDFCBK")
	require.NoError(t, err)
	assert.Equal(t, models.DirectionExpense, tx.Direction)
}

func TestParse_PrepaidRefundIsExpense(t *testing.T) {
	p, _ := newTestParser(t)

	tx, err := p.Parse("Rs.100 credited to A/c **1234 on 09-08-25. prepaid refund", "HDFCBK")
	require.NoError(t, err)
	assert.Equal(t, TagBank, tx.Grammar)
	assert.Equal(t, models.DirectionExpense, tx.Direction)
}

func TestParse_GroupedAmountsInEveryGrammar(t *testing.T) {
	p, _ := newTestParser(t)

	templates := []struct {
		grammar   string
		format    string
		direction models.Direction
	}{
		{TagBank, "%s credited to your A/c **5678 on 08-Aug-25. Salary", models.DirectionIncome},
		{TagSimpleBank, "%s debited from A/c XX1234 to VPA abc@ybl on 01-02-25.", models.DirectionExpense},
		{TagUPI, "%s sent to Ramesh Kumar via UPI. UPI Ref 4455", models.DirectionExpense},
		{TagCard, "%s spent on ICICI Bank Credit Card XX4321 at Uber on 05-09-25.", models.DirectionExpense},
		{TagOnline, "Payment of %s made to Amazon via Google Pay on 07-Aug-25", models.DirectionExpense},
	}
	amounts := []struct {
		text string
		want string
	}{
		{"Rs.1,500.00", "1500"},
		{"INR 1,50,000.00", "150000"},
	}

	for _, tmpl := range templates {
		for _, a := range amounts {
			msg := fmt.Sprintf(tmpl.format, a.text)
			t.Run(tmpl.grammar+"/"+a.text, func(t *testing.T) {
				tx, err := p.Parse(msg, "HDFCBK")
				require.NoError(t, err, msg)
				assert.Equal(t, tmpl.grammar, tx.Grammar)
				assert.True(t, decimal.RequireFromString(a.want).Equal(tx.Amount),
					"amount: want %s, got %s", a.want, tx.Amount)
				assert.Equal(t, tmpl.direction, tx.Direction)
			})
		}
	}
}

func TestParse_DescriptionFallbacks(t *testing.T) {
	p, _ := newTestParser(t)

	tests := []struct {
		name        string
		message     string
		direction   models.Direction
		description string
	}{
		{
			name:        "credit with nothing after reference",
			message:     "Rs.100.00 credited to your A/c XX9999 on 01-02-25. UPI Ref 5566",
			direction:   models.DirectionIncome,
			description: FallbackIncomeDescription,
		},
		{
			name:        "debit with nothing after date",
			message:     "Rs.100.00 debited from A/c XX9999 on 01-02-25.",
			direction:   models.DirectionExpense,
			description: FallbackExpenseDescription,
		},
		{
			name:        "description is only reference boilerplate",
			message:     "Rs.100.00 debited from A/c XX9999 on 01-02-25. UPI/P2M Ref No 12345",
			direction:   models.DirectionExpense,
			description: FallbackExpenseDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := p.Parse(tt.message, "HDFCBK")
			require.NoError(t, err)
			assert.Equal(t, tt.direction, tx.Direction)
			assert.Equal(t, tt.description, tx.Description)
			assert.NotEmpty(t, tx.Description)
		})
	}
}

func TestParse_ReferenceFallsBackToMessageScan(t *testing.T) {
	p, _ := newTestParser(t)

	tx, err := p.Parse("Rs.100.00 credited to your A/c XX9999 on 01-02-25. UPI Ref 5566", "HDFCBK")
	require.NoError(t, err)
	assert.Equal(t, "5566", tx.ReferenceID)
}

func TestParse_InvalidDateFallsBackToClock(t *testing.T) {
	p, logger := newTestParser(t)

	tx, err := p.Parse("Rs.100.00 debited from A/c XX9999 on 31-02-25. Zomato", "HDFCBK")
	require.NoError(t, err)
	assert.True(t, frozenNow.Equal(tx.Date))
	assert.Equal(t, models.CategoryFood, tx.Category)

	require.True(t, logger.HasEntry("DEBUG", "Unparseable SMS date, using current time"))
	for _, e := range logger.GetEntriesByLevel("DEBUG") {
		if e.Message != "Unparseable SMS date, using current time" {
			continue
		}
		token, ok := e.FieldValue("date")
		assert.True(t, ok)
		assert.Equal(t, "31-02-25", token)
		grammar, _ := e.FieldValue(logging.FieldGrammar)
		assert.Equal(t, TagBank, grammar)
	}
}

func TestParse_MissingDateIsNotLogged(t *testing.T) {
	p, logger := newTestParser(t)

	_, err := p.Parse("Rs.500 sent to Ramesh Kumar", "HDFCBK")
	require.NoError(t, err)
	assert.False(t, logger.HasEntry("DEBUG", "Unparseable SMS date, using current time"))
}

func TestParse_WithLocation(t *testing.T) {
	p, _ := newTestParser(t, WithLocation(time.UTC))

	tx, err := p.Parse(defaultSamples[0].Message, defaultSamples[0].Sender)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, tx.Date.Location())
	assert.Equal(t, time.Date(2025, time.August, 9, 0, 0, 0, 0, time.UTC), tx.Date)
}

func TestParse_IsIdempotent(t *testing.T) {
	p, _ := newTestParser(t)

	for _, s := range DefaultSamples() {
		first, err1 := p.Parse(s.Message, s.Sender)
		second, err2 := p.Parse(s.Message, s.Sender)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second, s.Name)
		assert.NotSame(t, first, second)
	}
}

func TestParse_FirstGrammarWins(t *testing.T) {
	p, _ := newTestParser(t)
	msg := defaultSamples[0].Message

	set := Grammars()
	assert.True(t, set[0].Pattern.MatchString(msg))
	assert.True(t, set[1].Pattern.MatchString(msg))

	tx, err := p.Parse(msg, "HDFCBK")
	require.NoError(t, err)
	assert.Equal(t, TagBank, tx.Grammar)
}

func TestParse_ConcurrentCallsAgree(t *testing.T) {
	p := New(WithLogger(logging.NewNopLogger()), WithClock(frozenClock))
	samples := DefaultSamples()

	want := make([]*models.ParsedTransaction, len(samples))
	for i, s := range samples {
		tx, err := p.Parse(s.Message, s.Sender)
		require.NoError(t, err)
		want[i] = tx
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64*len(samples))
	for g := 0; g < 64; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, s := range samples {
				tx, err := p.Parse(s.Message, s.Sender)
				if err != nil {
					errs <- err
					continue
				}
				if !assert.ObjectsAreEqual(want[i], tx) {
					errs <- errors.New("mismatch for " + s.Name)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestParse_RecoversFromPanic(t *testing.T) {
	logger := logging.NewMockLogger()
	p := New(WithLogger(logger), WithClock(func() time.Time { panic("clock exploded") }))

	tx, err := p.Parse(defaultSamples[0].Message, defaultSamples[0].Sender)
	assert.Nil(t, tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrInternal))

	var internal *parsererror.InternalError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, "clock exploded", internal.Recovered)
	assert.True(t, logger.HasEntry("ERROR", "Recovered from panic while parsing SMS"))
}

type recordingObserver struct {
	mu    sync.Mutex
	calls [][2]string
}

func (o *recordingObserver) ObserveParse(grammar, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, [2]string{grammar, outcome})
}

func TestParse_NotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	p, _ := newTestParser(t, WithObserver(obs))

	_, _ = p.Parse(defaultSamples[0].Message, defaultSamples[0].Sender)
	_, _ = p.Parse("hello", "HDFCBK")
	_, _ = p.Parse("Rs.0 debited from A/c XX1 on 01-01-25", "HDFCBK")
	_, _ = p.Parse("", "HDFCBK")

	assert.Equal(t, [][2]string{
		{TagBank, "ok"},
		{GrammarNone, "no_match"},
		{TagBank, "invalid_amount"},
		{GrammarNone, "invalid_input"},
	}, obs.calls)
}

type panickingObserver struct{}

func (panickingObserver) ObserveParse(string, string) { panic("observer down") }

func TestParse_ObserverPanicDoesNotFailParse(t *testing.T) {
	p, logger := newTestParser(t, WithObserver(panickingObserver{}))

	tx, err := p.Parse(defaultSamples[0].Message, defaultSamples[0].Sender)
	require.NoError(t, err)
	assert.NotNil(t, tx)
	assert.True(t, logger.HasEntry("ERROR", "Parse observer panicked"))
}

func TestNew_Defaults(t *testing.T) {
	p := New(WithLogger(nil), WithClock(nil), WithCategorizer(nil))
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.clock)
	assert.NotNil(t, p.categorizer)
	assert.Equal(t, Grammars().Tags(), p.Grammars().Tags())
}
