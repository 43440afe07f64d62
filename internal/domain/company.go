package domain

import (
	"fmt"
	"time"
)

type Company struct {
	ID             int
	Name           string
	Address        string
	TPIN           string
	BankDetails    string
	VATRate        float64
	PPDARate       float64
	PrimaryColor   string
	SecondaryColor string
	LogoURL        *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const (
	arkayPakName = "Arkay Pak"

	QuotePrefixArkayPak = "AP"
	QuotePrefixDefault  = "EH"
)

// QuotePrefix maps the company name to its quote-number prefix. Arkay Pak has
// its own code; every other company shares the default.
func (c *Company) QuotePrefix() string {
	if c.Name == arkayPakName {
		return QuotePrefixArkayPak
	}
	return QuotePrefixDefault
}

// FormatQuoteNumber renders "{prefix}-{sequence}" with the sequence zero-padded
// to 4 digits.
func FormatQuoteNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s-%04d", prefix, sequence)
}
