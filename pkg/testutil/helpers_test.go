package testutil

import (
	"testing"

	"github.com/iwvelando/design-loan-quote/internal/catalog"
	"github.com/iwvelando/design-loan-quote/internal/quote"
)

func TestFindQuotation(t *testing.T) {
	results := []quote.Quotation{
		{Design: catalog.Design{Name: "Bungalow"}, TotalRows: 24},
		{Design: catalog.Design{Name: "Warehouse shell"}, TotalRows: 60},
	}

	tests := []struct {
		name         string
		searchName   string
		expectFound  bool
		expectedRows int
	}{
		{
			name:         "Find first design",
			searchName:   "Bungalow",
			expectFound:  true,
			expectedRows: 24,
		},
		{
			name:         "Find second design",
			searchName:   "Warehouse shell",
			expectFound:  true,
			expectedRows: 60,
		},
		{
			name:        "Missing design",
			searchName:  "Cottage",
			expectFound: false,
		},
		{
			name:        "Name match is exact",
			searchName:  "bungalow",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindQuotation(results, tt.searchName)
			if !tt.expectFound {
				if result != nil {
					t.Errorf("expected no quotation for %q, got %+v", tt.searchName, result.Design)
				}
				return
			}
			if result == nil {
				t.Fatalf("expected quotation for %q", tt.searchName)
			}
			if result.TotalRows != tt.expectedRows {
				t.Errorf("expected %d rows, got %d", tt.expectedRows, result.TotalRows)
			}
		})
	}
}

func TestFindQuotationEmpty(t *testing.T) {
	if FindQuotation(nil, "Bungalow") != nil {
		t.Error("expected nil for empty results")
	}
}

func TestSampleDesignsAreValid(t *testing.T) {
	for _, design := range SampleDesigns() {
		if err := design.Validate(); err != nil {
			t.Errorf("sample design %s is invalid: %v", design.Name, err)
		}
	}
}
