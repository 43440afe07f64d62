package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotehub/internal/domain"
	"quotehub/internal/dto"
	apperrors "quotehub/internal/errors"
)

type CompanyUseCase interface {
	List(ctx context.Context) ([]domain.Company, error)
	Get(ctx context.Context, id int) (*domain.Company, error)
	Update(ctx context.Context, id int, fields dto.CompanyUpdate, logoURL *string) (*domain.Company, error)
	NextQuoteNumber(ctx context.Context, companyID int) (string, error)
}

type LogoStore interface {
	Save(originalName string, r io.Reader) (string, error)
}

type CompanyController struct {
	useCase        CompanyUseCase
	logoStore      LogoStore
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewCompanyController(useCase CompanyUseCase, logoStore LogoStore, logger *zap.Logger, maxUploadBytes int64) *CompanyController {
	return &CompanyController{
		useCase:        useCase,
		logoStore:      logoStore,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

func (c *CompanyController) HandleList(w http.ResponseWriter, r *http.Request) {
	companies, err := c.useCase.List(r.Context())
	if err != nil {
		c.logger.Error("listing companies failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "failed to fetch companies")
		return
	}

	responses := make([]dto.CompanyResponse, len(companies))
	for i, company := range companies {
		responses[i] = toCompanyResponse(&company)
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *CompanyController) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := c.parseCompanyID(r)
	if err != nil {
		c.writeValidationError(w, err)
		return
	}

	company, err := c.useCase.Get(r.Context(), id)
	if err != nil {
		c.handleUseCaseError(w, err, "failed to fetch company")
		return
	}

	c.writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (c *CompanyController) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := c.parseCompanyID(r)
	if err != nil {
		c.writeValidationError(w, err)
		return
	}

	// Leave slack above the logo limit for the text fields; the logo size is
	// checked on its own below.
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		logger.Warn("invalid multipart form", zap.Error(err))
		c.writeValidationError(w, apperrors.NewValidationError("invalid multipart form", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be a valid multipart form",
		}))
		return
	}

	fields, validationErr := c.parseCompanyFields(r)
	if validationErr != nil {
		c.writeValidationError(w, validationErr)
		return
	}

	logoURL, err := c.saveLogoIfPresent(r)
	if err != nil {
		if _, ok := apperrors.IsValidationError(err); ok {
			c.writeValidationError(w, err)
			return
		}
		logger.Error("storing logo failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "failed to store logo")
		return
	}

	company, err := c.useCase.Update(r.Context(), id, *fields, logoURL)
	if err != nil {
		c.handleUseCaseError(w, err, "failed to update company")
		return
	}

	logger.Info("company updated", zap.Int("companyId", id))
	c.writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (c *CompanyController) HandleNextQuoteNumber(w http.ResponseWriter, r *http.Request) {
	id, err := c.parseCompanyID(r)
	if err != nil {
		c.writeValidationError(w, err)
		return
	}

	quoteNumber, err := c.useCase.NextQuoteNumber(r.Context(), id)
	if err != nil {
		c.handleUseCaseError(w, err, "failed to generate quote number")
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NextQuoteNumberResponse{QuoteNumber: quoteNumber})
}

func (c *CompanyController) parseCompanyID(r *http.Request) (int, error) {
	idStr := chi.URLParam(r, "companyID")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid company id", apperrors.ValidationDetail{
			Field:   "companyID",
			Message: "company id must be a positive integer",
		})
	}
	return id, nil
}

func (c *CompanyController) parseCompanyFields(r *http.Request) (*dto.CompanyUpdate, error) {
	var details []apperrors.ValidationDetail

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}

	vatRate, err := strconv.ParseFloat(r.FormValue("vat_rate"), 64)
	if err != nil || vatRate < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "vat_rate",
			Message: "vat_rate must be a non-negative number",
		})
	}

	ppdaRate, err := strconv.ParseFloat(r.FormValue("ppda_rate"), 64)
	if err != nil || ppdaRate < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "ppda_rate",
			Message: "ppda_rate must be a non-negative number",
		})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	return &dto.CompanyUpdate{
		Name:           name,
		Address:        r.FormValue("address"),
		TPIN:           r.FormValue("tpin"),
		BankDetails:    r.FormValue("bank_details"),
		VATRate:        vatRate,
		PPDARate:       ppdaRate,
		PrimaryColor:   r.FormValue("primary_color"),
		SecondaryColor: r.FormValue("secondary_color"),
	}, nil
}

// saveLogoIfPresent returns the stored public path, or nil when the request
// carried no logo field. Non-image content and oversize files are rejected.
func (c *CompanyController) saveLogoIfPresent(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("logo")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewValidationError("invalid logo upload", apperrors.ValidationDetail{
			Field:   "logo",
			Message: "logo must be a file field",
		})
	}
	defer file.Close()

	if header.Size > c.maxUploadBytes {
		return nil, apperrors.NewValidationError("logo too large", apperrors.ValidationDetail{
			Field:   "logo",
			Message: "logo must not exceed 5MB",
		})
	}

	// Sniff the real content type instead of trusting the declared one.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return nil, apperrors.NewValidationError("unsupported logo type", apperrors.ValidationDetail{
			Field:   "logo",
			Message: "only image files are allowed",
		})
	}

	path, err := c.logoStore.Save(header.Filename, io.MultiReader(bytes.NewReader(head[:n]), file))
	if err != nil {
		return nil, err
	}

	return &path, nil
}

func (c *CompanyController) handleUseCaseError(w http.ResponseWriter, err error, fallback string) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, nfe.Message)
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, fallback)
}

func toCompanyResponse(company *domain.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:             company.ID,
		Name:           company.Name,
		Address:        company.Address,
		TPIN:           company.TPIN,
		BankDetails:    company.BankDetails,
		VATRate:        company.VATRate,
		PPDARate:       company.PPDARate,
		PrimaryColor:   company.PrimaryColor,
		SecondaryColor: company.SecondaryColor,
		LogoURL:        company.LogoURL,
		CreatedAt:      company.CreatedAt,
		UpdatedAt:      company.UpdatedAt,
	}
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *CompanyController) writeValidationError(w http.ResponseWriter, err error) {
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		ve = apperrors.NewValidationError(err.Error())
	}

	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: ve.Message,
		Details: ve.Details,
	})
}

func (c *CompanyController) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, map[string]string{"error": message})
}

func (c *CompanyController) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
