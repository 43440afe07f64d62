package dto

import "time"

type CompanyResponse struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	TPIN           string    `json:"tpin"`
	BankDetails    string    `json:"bank_details"`
	VATRate        float64   `json:"vat_rate"`
	PPDARate       float64   `json:"ppda_rate"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	LogoURL        *string   `json:"logo_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CompanyUpdate carries the full-overwrite field set for a company update.
// The logo reference travels separately because it is optional per request.
type CompanyUpdate struct {
	Name           string
	Address        string
	TPIN           string
	BankDetails    string
	VATRate        float64
	PPDARate       float64
	PrimaryColor   string
	SecondaryColor string
}

type NextQuoteNumberResponse struct {
	QuoteNumber string `json:"quoteNumber"`
}
