package dto

import "time"

type QuotationItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type QuotationRequest struct {
	CompanyID       int                    `json:"company_id"`
	QuoteNumber     string                 `json:"quote_number"`
	ClientName      string                 `json:"client_name"`
	ClientAddress   *string                `json:"client_address"`
	ClientEmail     *string                `json:"client_email"`
	ClientPhone     *string                `json:"client_phone"`
	Date            string                 `json:"date"`
	ExpiryDays      int                    `json:"expiry_days"`
	Subtotal        float64                `json:"subtotal"`
	VATAmount       float64                `json:"vat_amount"`
	PPDAAmount      float64                `json:"ppda_amount"`
	GrandTotal      float64                `json:"grand_total"`
	Notes           *string                `json:"notes"`
	TermsConditions *string                `json:"terms_conditions"`
	Items           []QuotationItemRequest `json:"items"`
}

type QuotationSummaryResponse struct {
	ID              uint      `json:"id"`
	CompanyID       int       `json:"company_id"`
	CompanyName     string    `json:"company_name"`
	QuoteNumber     string    `json:"quote_number"`
	ClientName      string    `json:"client_name"`
	ClientAddress   *string   `json:"client_address"`
	ClientEmail     *string   `json:"client_email"`
	ClientPhone     *string   `json:"client_phone"`
	Date            string    `json:"date"`
	ExpiryDays      int       `json:"expiry_days"`
	Subtotal        float64   `json:"subtotal"`
	VATAmount       float64   `json:"vat_amount"`
	PPDAAmount      float64   `json:"ppda_amount"`
	GrandTotal      float64   `json:"grand_total"`
	Notes           *string   `json:"notes"`
	TermsConditions *string   `json:"terms_conditions"`
	CreatedAt       time.Time `json:"created_at"`
}

type QuotationItemResponse struct {
	ID          uint    `json:"id"`
	QuotationID uint    `json:"quotation_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	SortOrder   int     `json:"sort_order"`
}

type QuotationDetailResponse struct {
	QuotationSummaryResponse
	CompanyAddress     string                  `json:"company_address"`
	CompanyTPIN        string                  `json:"company_tpin"`
	CompanyBankDetails string                  `json:"company_bank_details"`
	CompanyLogo        *string                 `json:"company_logo"`
	PrimaryColor       string                  `json:"primary_color"`
	SecondaryColor     string                  `json:"secondary_color"`
	Items              []QuotationItemResponse `json:"items"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
