package banks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"HDFCBK", "HDFC Bank"},
		{"ICICIB", "ICICI Bank"},
		{"SBIINB", "State Bank of India"},
		{"SBMSMS", "State Bank of India"},
		{"PAYTM", "Paytm Payments Bank"},
		{"AXISBK", "Axis Bank"},
		{"KOTAKB", "Kotak Mahindra Bank"},
		{"PNBSMS", "Punjab National Bank"},
		{"IOBNET", "Indian Overseas Bank"},
		{"UNIONB", "Union Bank of India"},
		{"hdfcbk", "HDFC Bank"},
		{"VM-HDFCBK", "HDFC Bank"},
		{"AD-ICICIB-S", "ICICI Bank"},
		{"GOOGLEPAY", "Unknown Bank"},
		{"", "Unknown Bank"},
		{"VM-NOTABANK", "Unknown Bank"},
	}
	for _, tt := range tests {
		t.Run(tt.sender, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.sender))
		})
	}
}

func TestKnownAndCodes(t *testing.T) {
	assert.True(t, Known("JD-AXISBK"))
	assert.False(t, Known("GOOGLEPAY"))
	assert.Len(t, Codes(), 10)
	assert.Contains(t, Codes(), "UNIONB")
}
