package importer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// ExportRows flattens the tenant's catalog into the file schema: one row per
// (product, variant) pair. A product with no variants exports one synthetic
// "Default" row priced at its base price, so the output stays reimportable.
func (s *Service) ExportRows(tenantID string) ([]*ExportRow, error) {
	products, err := s.store.ListProductsWithVariants(tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	// category names are resolved once per category, not per row
	categoryNames := make(map[uuid.UUID]string)
	categoryName := func(id uuid.UUID) (string, error) {
		if name, ok := categoryNames[id]; ok {
			return name, nil
		}
		category, err := s.store.GetCategoryByID(tenantID, id)
		if err != nil {
			return "", fmt.Errorf("failed to resolve category %s: %w", id, err)
		}
		categoryNames[id] = category.Name
		return category.Name, nil
	}

	var rows []*ExportRow
	for i := range products {
		product := &products[i]
		name, err := categoryName(product.CategoryID)
		if err != nil {
			return nil, err
		}

		base := ExportRow{
			ProductName:  product.Name,
			Description:  stringValue(product.Description),
			CategoryName: name,
			BasePrice:    product.BasePrice,
			Active:       strconv.FormatBool(product.IsActive == nil || *product.IsActive),
			ImageURL:     stringValue(product.ImageURL),
		}

		if len(product.Variants) == 0 {
			row := base
			row.VariantName = "Default"
			row.VariantPrice = product.BasePrice
			row.Stock = "0"
			rows = append(rows, &row)
			continue
		}

		for _, variant := range product.Variants {
			row := base
			row.VariantName = variant.Name
			row.SKU = variant.SKU
			row.Barcode = stringValue(variant.Barcode)
			row.VariantPrice = variant.Price
			row.Stock = strconv.Itoa(variant.Quantity)
			row.Attributes = stringValue(variant.Attributes)
			rows = append(rows, &row)
		}
	}

	return rows, nil
}

// WriteExport streams the tenant's catalog to w in the requested format.
func (s *Service) WriteExport(w io.Writer, tenantID string, format models.ImportFormat) error {
	rows, err := s.ExportRows(tenantID)
	if err != nil {
		return err
	}
	return writeRows(w, rows, format)
}

// WriteTemplate writes a downloadable template with one example row.
func WriteTemplate(w io.Writer, format models.ImportFormat) error {
	return writeRows(w, []*ExportRow{templateRow()}, format)
}

func writeRows(w io.Writer, rows []*ExportRow, format models.ImportFormat) error {
	switch format {
	case models.ImportFormatCSV:
		return WriteCSV(w, rows)
	case models.ImportFormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// templateRow builds the example row from the schema's column examples, so
// the template and the documented schema cannot drift apart.
func templateRow() *ExportRow {
	row := &ImportRow{}
	for _, col := range columns {
		col.Assign(row, col.Example)
	}
	return &ExportRow{
		ProductName:  row.ProductName,
		Description:  row.Description,
		CategoryName: row.CategoryName,
		BasePrice:    row.BasePrice,
		VariantName:  row.VariantName,
		SKU:          row.SKU,
		Barcode:      row.Barcode,
		VariantPrice: row.VariantPrice,
		Stock:        row.Stock,
		Attributes:   row.Attributes,
		Active:       row.Active,
		ImageURL:     row.ImageURL,
	}
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
