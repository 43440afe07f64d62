package domain

import "time"

type Quotation struct {
	ID              uint
	CompanyID       int
	QuoteNumber     string
	ClientName      string
	ClientAddress   *string
	ClientEmail     *string
	ClientPhone     *string
	Date            time.Time
	ExpiryDays      int
	Subtotal        float64
	VATAmount       float64
	PPDAAmount      float64
	GrandTotal      float64
	Notes           *string
	TermsConditions *string
	CreatedAt       time.Time
}

type QuotationItem struct {
	ID          uint
	QuotationID uint
	Description string
	Quantity    float64
	UnitPrice   float64
	Total       float64
	SortOrder   int
}

// QuotationSummary is a quotation header joined with its company name, the
// shape returned by list and by create/update acknowledgements.
type QuotationSummary struct {
	Quotation
	CompanyName string
}

// QuotationDetail carries the company presentation fields needed to render or
// print the quotation, plus the ordered item list.
type QuotationDetail struct {
	Quotation
	CompanyName        string
	CompanyAddress     string
	CompanyTPIN        string
	CompanyBankDetails string
	CompanyLogo        *string
	PrimaryColor       string
	SecondaryColor     string
	Items              []QuotationItem
}
