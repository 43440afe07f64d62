package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompany_QuotePrefix_ArkayPak(t *testing.T) {
	company := Company{ID: 1, Name: "Arkay Pak"}
	assert.Equal(t, "AP", company.QuotePrefix())
}

func TestCompany_QuotePrefix_Default(t *testing.T) {
	for _, name := range []string{"Eastern Holdings", "arkay pak", "Arkay Pak "} {
		company := Company{ID: 2, Name: name}
		assert.Equal(t, "EH", company.QuotePrefix(), "name %q", name)
	}
}

func TestFormatQuoteNumber_ZeroPadding(t *testing.T) {
	tests := []struct {
		prefix   string
		sequence int
		want     string
	}{
		{"AP", 1, "AP-0001"},
		{"AP", 4, "AP-0004"},
		{"EH", 42, "EH-0042"},
		{"EH", 999, "EH-0999"},
		{"AP", 12345, "AP-12345"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatQuoteNumber(tt.prefix, tt.sequence))
	}
}

func TestCompany_PrefixConstants(t *testing.T) {
	assert.Equal(t, "AP", QuotePrefixArkayPak)
	assert.Equal(t, "EH", QuotePrefixDefault)
}
