package importer

import "catalog-service/internal/models"

// ImportRow is one physical data row from an uploaded file, before any
// validation or type coercion. Every field is raw cell text. Line is the
// 1-based physical row number in the file (the header is line 1).
type ImportRow struct {
	Line         int
	ProductName  string
	Description  string
	CategoryName string
	BasePrice    string
	VariantName  string
	SKU          string
	Barcode      string
	VariantPrice string
	Stock        string
	Attributes   string
	Active       string
	ImageURL     string
}

// ExportRow mirrors the import schema but is always derived from persisted
// catalog state. One ExportRow corresponds to exactly one (product, variant)
// pair; a product without variants exports one synthetic row.
type ExportRow struct {
	ProductName  string
	Description  string
	CategoryName string
	BasePrice    string
	VariantName  string
	SKU          string
	Barcode      string
	VariantPrice string
	Stock        string
	Attributes   string
	Active       string
	ImageURL     string
}

// columnSpec binds one spreadsheet column to the import and export row
// fields. The ordered columns slice below is the single source of truth for
// the file schema: both the CSV and XLSX adapters, in both directions, walk
// it so the formats cannot drift apart.
type columnSpec struct {
	Name        string
	Description string
	Required    bool
	Type        string
	Example     string
	Assign      func(r *ImportRow, cell string)
	Extract     func(r *ExportRow) string
}

var columns = []columnSpec{
	{
		Name: "Product Name", Description: "Product name, groups variant rows", Required: true, Type: "string", Example: "Classic Cotton T-Shirt",
		Assign:  func(r *ImportRow, c string) { r.ProductName = c },
		Extract: func(r *ExportRow) string { return r.ProductName },
	},
	{
		Name: "Description", Description: "Product description", Required: false, Type: "string", Example: "Soft pre-shrunk cotton tee",
		Assign:  func(r *ImportRow, c string) { r.Description = c },
		Extract: func(r *ExportRow) string { return r.Description },
	},
	{
		Name: "Category", Description: "Category name, auto-created if not exists", Required: true, Type: "string", Example: "Apparel",
		Assign:  func(r *ImportRow, c string) { r.CategoryName = c },
		Extract: func(r *ExportRow) string { return r.CategoryName },
	},
	{
		Name: "Base Price", Description: "Product base price", Required: true, Type: "number", Example: "19.99",
		Assign:  func(r *ImportRow, c string) { r.BasePrice = c },
		Extract: func(r *ExportRow) string { return r.BasePrice },
	},
	{
		Name: "Variant Name", Description: "Variant display name", Required: false, Type: "string", Example: "Midnight Blue / M",
		Assign:  func(r *ImportRow, c string) { r.VariantName = c },
		Extract: func(r *ExportRow) string { return r.VariantName },
	},
	{
		Name: "SKU", Description: "Unique variant SKU, reconciliation key", Required: true, Type: "string", Example: "TSH-BLU-M-001",
		Assign:  func(r *ImportRow, c string) { r.SKU = c },
		Extract: func(r *ExportRow) string { return r.SKU },
	},
	{
		Name: "Barcode", Description: "Variant barcode (EAN/UPC)", Required: false, Type: "string", Example: "0012345678905",
		Assign:  func(r *ImportRow, c string) { r.Barcode = c },
		Extract: func(r *ExportRow) string { return r.Barcode },
	},
	{
		Name: "Variant Price", Description: "Variant price", Required: true, Type: "number", Example: "21.99",
		Assign:  func(r *ImportRow, c string) { r.VariantPrice = c },
		Extract: func(r *ExportRow) string { return r.VariantPrice },
	},
	{
		Name: "Stock", Description: "Variant stock quantity", Required: true, Type: "number", Example: "25",
		Assign:  func(r *ImportRow, c string) { r.Stock = c },
		Extract: func(r *ExportRow) string { return r.Stock },
	},
	{
		Name: "Attributes", Description: "Free-form attribute text, stored verbatim", Required: false, Type: "string", Example: `{"color":"Midnight Blue","size":"M"}`,
		Assign:  func(r *ImportRow, c string) { r.Attributes = c },
		Extract: func(r *ExportRow) string { return r.Attributes },
	},
	{
		Name: "Active", Description: "true/false, defaults to true", Required: false, Type: "boolean", Example: "true",
		Assign:  func(r *ImportRow, c string) { r.Active = c },
		Extract: func(r *ExportRow) string { return r.Active },
	},
	{
		Name: "Image URL", Description: "Product image URL", Required: false, Type: "string", Example: "https://cdn.example.com/products/tsh-blu-m.jpg",
		Assign:  func(r *ImportRow, c string) { r.ImageURL = c },
		Extract: func(r *ExportRow) string { return r.ImageURL },
	},
}

// headerRow returns the column names in schema order.
func headerRow() []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

// recordCells renders an ExportRow into cells in schema order.
func recordCells(r *ExportRow) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = col.Extract(r)
	}
	return cells
}

// rowFromCells builds an ImportRow from raw cells. Short rows leave trailing
// fields empty; extra cells beyond the schema are ignored.
func rowFromCells(cells []string, line int) *ImportRow {
	row := &ImportRow{Line: line}
	for i, col := range columns {
		if i < len(cells) {
			col.Assign(row, cells[i])
		}
	}
	return row
}

// TemplateDefinition returns the column metadata served by the template
// endpoint in JSON mode.
func TemplateDefinition() models.ImportTemplate {
	cols := make([]models.ImportTemplateColumn, len(columns))
	for i, col := range columns {
		cols[i] = models.ImportTemplateColumn{
			Name:        col.Name,
			Description: col.Description,
			Required:    col.Required,
			Type:        col.Type,
			Example:     col.Example,
		}
	}
	return models.ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: cols,
	}
}
