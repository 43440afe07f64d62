package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"quotehub/internal/domain"
	"quotehub/internal/dto"
	apperrors "quotehub/internal/errors"
)

// Mock implementations

type mockCompanyRepository struct {
	FindAllFunc  func(ctx context.Context) ([]domain.Company, error)
	FindByIDFunc func(ctx context.Context, id int) (*domain.Company, error)
	UpdateFunc   func(ctx context.Context, id int, company domain.Company, logoURL *string) error
}

func (m *mockCompanyRepository) FindAll(ctx context.Context) ([]domain.Company, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockCompanyRepository) FindByID(ctx context.Context, id int) (*domain.Company, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockCompanyRepository) Update(ctx context.Context, id int, company domain.Company, logoURL *string) error {
	return m.UpdateFunc(ctx, id, company, logoURL)
}

type mockQuotationCounter struct {
	CountByCompanyIDFunc func(ctx context.Context, companyID int) (int, error)
}

func (m *mockQuotationCounter) CountByCompanyID(ctx context.Context, companyID int) (int, error) {
	return m.CountByCompanyIDFunc(ctx, companyID)
}

// Tests

func TestNextQuoteNumber_ArkayPak(t *testing.T) {
	ctx := context.Background()

	repo := &mockCompanyRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Company, error) {
			return &domain.Company{ID: id, Name: "Arkay Pak"}, nil
		},
	}
	counter := &mockQuotationCounter{
		CountByCompanyIDFunc: func(ctx context.Context, companyID int) (int, error) {
			return 3, nil
		},
	}

	uc := NewCompanyUseCase(repo, counter, zap.NewNop())

	number, err := uc.NextQuoteNumber(ctx, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if number != "AP-0004" {
		t.Errorf("expected AP-0004, got %q", number)
	}
}

func TestNextQuoteNumber_DefaultPrefix(t *testing.T) {
	ctx := context.Background()

	repo := &mockCompanyRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Company, error) {
			return &domain.Company{ID: id, Name: "Mzuzu Traders"}, nil
		},
	}
	counter := &mockQuotationCounter{
		CountByCompanyIDFunc: func(ctx context.Context, companyID int) (int, error) {
			return 0, nil
		},
	}

	uc := NewCompanyUseCase(repo, counter, zap.NewNop())

	number, err := uc.NextQuoteNumber(ctx, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if number != "EH-0001" {
		t.Errorf("expected EH-0001, got %q", number)
	}
}

func TestNextQuoteNumber_CompanyNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mockCompanyRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Company, error) {
			return nil, apperrors.NewNotFoundError("company not found")
		},
	}
	counter := &mockQuotationCounter{
		CountByCompanyIDFunc: func(ctx context.Context, companyID int) (int, error) {
			t.Fatal("counter must not be called for an unknown company")
			return 0, nil
		},
	}

	uc := NewCompanyUseCase(repo, counter, zap.NewNop())

	_, err := uc.NextQuoteNumber(ctx, 9999)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}

func TestUpdate_ReturnsPostUpdateRecord(t *testing.T) {
	ctx := context.Background()
	var gotLogo *string

	repo := &mockCompanyRepository{
		UpdateFunc: func(ctx context.Context, id int, company domain.Company, logoURL *string) error {
			gotLogo = logoURL
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Company, error) {
			return &domain.Company{ID: id, Name: "Arkay Pak", VATRate: 17.50}, nil
		},
	}

	uc := NewCompanyUseCase(repo, &mockQuotationCounter{}, zap.NewNop())

	logo := "/uploads/logo-new.png"
	company, err := uc.Update(ctx, 1, dto.CompanyUpdate{Name: "Arkay Pak", VATRate: 17.50}, &logo)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if company.VATRate != 17.50 {
		t.Errorf("expected post-update record, got VAT %v", company.VATRate)
	}
	if gotLogo == nil || *gotLogo != logo {
		t.Errorf("expected logo reference forwarded, got %v", gotLogo)
	}
}

func TestUpdate_NotFoundPassesThrough(t *testing.T) {
	ctx := context.Background()

	repo := &mockCompanyRepository{
		UpdateFunc: func(ctx context.Context, id int, company domain.Company, logoURL *string) error {
			return apperrors.NewNotFoundError("company not found")
		},
	}

	uc := NewCompanyUseCase(repo, &mockQuotationCounter{}, zap.NewNop())

	_, err := uc.Update(ctx, 9999, dto.CompanyUpdate{Name: "Ghost"}, nil)
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		t.Errorf("expected NotFoundError, got %T", err)
	}
}
