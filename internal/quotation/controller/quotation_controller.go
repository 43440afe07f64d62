package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotehub/internal/domain"
	"quotehub/internal/dto"
	apperrors "quotehub/internal/errors"
)

const dateLayout = "2006-01-02"

type QuotationUseCase interface {
	List(ctx context.Context, companyID *int) ([]domain.QuotationSummary, error)
	Get(ctx context.Context, id uint) (*domain.QuotationDetail, error)
	Create(ctx context.Context, q domain.Quotation, items []domain.QuotationItem) (*domain.QuotationSummary, error)
	Update(ctx context.Context, id uint, q domain.Quotation, items []domain.QuotationItem) (*domain.QuotationSummary, error)
	Delete(ctx context.Context, id uint) error
}

type QuotationController struct {
	useCase QuotationUseCase
	logger  *zap.Logger
}

func NewQuotationController(useCase QuotationUseCase, logger *zap.Logger) *QuotationController {
	return &QuotationController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *QuotationController) HandleList(w http.ResponseWriter, r *http.Request) {
	var companyID *int
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.writeValidationError(w, apperrors.NewValidationError("invalid company_id filter", apperrors.ValidationDetail{
				Field:   "company_id",
				Message: "company_id must be a positive integer",
			}))
			return
		}
		companyID = &id
	}

	quotations, err := c.useCase.List(r.Context(), companyID)
	if err != nil {
		c.logger.Error("listing quotations failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "failed to fetch quotations")
		return
	}

	responses := make([]dto.QuotationSummaryResponse, len(quotations))
	for i, q := range quotations {
		responses[i] = toSummaryResponse(&q)
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *QuotationController) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := c.parseQuotationID(r)
	if err != nil {
		c.writeValidationError(w, err)
		return
	}

	detail, err := c.useCase.Get(r.Context(), id)
	if err != nil {
		c.handleUseCaseError(w, err, "failed to fetch quotation")
		return
	}

	c.writeJSON(w, http.StatusOK, toDetailResponse(detail))
}

func (c *QuotationController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.QuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return
	}

	quotation, items, validationErr := c.mapRequest(req, true)
	if validationErr != nil {
		c.writeValidationError(w, validationErr)
		return
	}

	summary, err := c.useCase.Create(r.Context(), *quotation, items)
	if err != nil {
		c.handleUseCaseError(w, err, "failed to create quotation")
		return
	}

	logger.Info("quotation created",
		zap.Uint("quotationId", summary.ID),
		zap.String("quoteNumber", summary.QuoteNumber))

	c.writeJSON(w, http.StatusCreated, toSummaryResponse(summary))
}

func (c *QuotationController) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := c.parseQuotationID(r)
	if err != nil {
		c.writeValidationError(w, err)
		return
	}

	var req dto.QuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return
	}

	quotation, items, validationErr := c.mapRequest(req, false)
	if validationErr != nil {
		c.writeValidationError(w, validationErr)
		return
	}

	summary, err := c.useCase.Update(r.Context(), id, *quotation, items)
	if err != nil {
		c.handleUseCaseError(w, err, "failed to update quotation")
		return
	}

	logger.Info("quotation updated", zap.Uint("quotationId", id))

	c.writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (c *QuotationController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := c.parseQuotationID(r)
	if err != nil {
		c.writeValidationError(w, err)
		return
	}

	if err := c.useCase.Delete(r.Context(), id); err != nil {
		c.handleUseCaseError(w, err, "failed to delete quotation")
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "quotation deleted successfully"})
}

func (c *QuotationController) parseQuotationID(r *http.Request) (uint, error) {
	idStr := chi.URLParam(r, "quotationID")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("invalid quotation id", apperrors.ValidationDetail{
			Field:   "quotationID",
			Message: "quotation id must be a positive integer",
		})
	}
	return uint(id), nil
}

// mapRequest validates the boundary input and converts it to domain values.
// requireCompany is false on update, where the owning company is immutable
// and the path id is authoritative.
func (c *QuotationController) mapRequest(req dto.QuotationRequest, requireCompany bool) (*domain.Quotation, []domain.QuotationItem, error) {
	var details []apperrors.ValidationDetail

	if requireCompany && req.CompanyID <= 0 {
		msg := "company_id must be a positive integer"
		if req.CompanyID == 0 {
			msg = "company_id is required"
		}
		details = append(details, apperrors.ValidationDetail{Field: "company_id", Message: msg})
	}

	if req.ClientName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "client_name", Message: "client_name is required"})
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "date", Message: "date must be formatted as YYYY-MM-DD"})
	}

	if req.ExpiryDays < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "expiry_days", Message: "expiry_days must not be negative"})
	}

	for idx, item := range req.Items {
		if item.Description == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].description",
				Message: "description is required",
			})
		}
	}

	if len(details) > 0 {
		return nil, nil, apperrors.NewValidationError("validation failed", details...)
	}

	quotation := domain.Quotation{
		CompanyID:       req.CompanyID,
		QuoteNumber:     req.QuoteNumber,
		ClientName:      req.ClientName,
		ClientAddress:   req.ClientAddress,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		Date:            date,
		ExpiryDays:      req.ExpiryDays,
		Subtotal:        req.Subtotal,
		VATAmount:       req.VATAmount,
		PPDAAmount:      req.PPDAAmount,
		GrandTotal:      req.GrandTotal,
		Notes:           req.Notes,
		TermsConditions: req.TermsConditions,
	}

	items := make([]domain.QuotationItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.QuotationItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}

	return &quotation, items, nil
}

func (c *QuotationController) handleUseCaseError(w http.ResponseWriter, err error, fallback string) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, nfe.Message)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, ce.Message)
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, fallback)
}

func toSummaryResponse(q *domain.QuotationSummary) dto.QuotationSummaryResponse {
	return dto.QuotationSummaryResponse{
		ID:              q.ID,
		CompanyID:       q.CompanyID,
		CompanyName:     q.CompanyName,
		QuoteNumber:     q.QuoteNumber,
		ClientName:      q.ClientName,
		ClientAddress:   q.ClientAddress,
		ClientEmail:     q.ClientEmail,
		ClientPhone:     q.ClientPhone,
		Date:            q.Date.Format(dateLayout),
		ExpiryDays:      q.ExpiryDays,
		Subtotal:        q.Subtotal,
		VATAmount:       q.VATAmount,
		PPDAAmount:      q.PPDAAmount,
		GrandTotal:      q.GrandTotal,
		Notes:           q.Notes,
		TermsConditions: q.TermsConditions,
		CreatedAt:       q.CreatedAt,
	}
}

func toDetailResponse(detail *domain.QuotationDetail) dto.QuotationDetailResponse {
	summary := toSummaryResponse(&domain.QuotationSummary{Quotation: detail.Quotation, CompanyName: detail.CompanyName})

	items := make([]dto.QuotationItemResponse, len(detail.Items))
	for i, item := range detail.Items {
		items[i] = dto.QuotationItemResponse{
			ID:          item.ID,
			QuotationID: item.QuotationID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			SortOrder:   item.SortOrder,
		}
	}

	return dto.QuotationDetailResponse{
		QuotationSummaryResponse: summary,
		CompanyAddress:           detail.CompanyAddress,
		CompanyTPIN:              detail.CompanyTPIN,
		CompanyBankDetails:       detail.CompanyBankDetails,
		CompanyLogo:              detail.CompanyLogo,
		PrimaryColor:             detail.PrimaryColor,
		SecondaryColor:           detail.SecondaryColor,
		Items:                    items,
	}
}

func (c *QuotationController) writeValidationError(w http.ResponseWriter, err error) {
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		ve = apperrors.NewValidationError(err.Error())
	}

	c.writeJSON(w, http.StatusBadRequest, struct {
		Error   string                       `json:"error"`
		Message string                       `json:"message"`
		Details []apperrors.ValidationDetail `json:"details"`
	}{
		Error:   "VALIDATION_ERROR",
		Message: ve.Message,
		Details: ve.Details,
	})
}

func (c *QuotationController) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, map[string]string{"error": message})
}

func (c *QuotationController) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
