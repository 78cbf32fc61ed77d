package models

// ImportFormat represents the file format for import/export
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// Error codes attached to ImportRowError records.
const (
	ErrCodeRequired        = "REQUIRED"
	ErrCodeInvalid         = "INVALID"
	ErrCodeCategoryFailed  = "CATEGORY_FAILED"
	ErrCodeProductFailed   = "PRODUCT_FAILED"
	ErrCodeVariantFailed   = "VARIANT_FAILED"
	ErrCodeRowSkipped      = "ROW_SKIPPED"
	ErrCodeReconcileFailed = "RECONCILE_FAILED"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ImportRowError represents a structured error for a specific row. Row is the
// physical line number in the uploaded file (header is row 1).
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Reconciliation outcomes for a category, product, or variant.
const (
	OutcomeCreated = "created"
	OutcomeReused  = "reused"
	OutcomeUpdated = "updated"
)

// GroupOutcome records how one product group was reconciled against the
// catalog. Variants is keyed by SKU.
type GroupOutcome struct {
	Product        string            `json:"product"`
	ProductOutcome string            `json:"productOutcome"`
	Variants       map[string]string `json:"variants,omitempty"`
}

// ImportResult represents the result of an import operation. SuccessCount is
// counted per product group, not per row; ErrorCount counts invalid rows and
// failed groups.
type ImportResult struct {
	Success         bool             `json:"success"`
	TotalRows       int              `json:"totalRows"`
	SuccessCount    int              `json:"successCount"`
	ErrorCount      int              `json:"errorCount"`
	CreatedProducts int              `json:"createdProducts"`
	UpdatedProducts int              `json:"updatedProducts"`
	ReusedProducts  int              `json:"reusedProducts"`
	CreatedVariants int              `json:"createdVariants"`
	UpdatedVariants int              `json:"updatedVariants"`
	ReusedVariants  int              `json:"reusedVariants"`
	Outcomes        []GroupOutcome   `json:"outcomes,omitempty"`
	Errors          []ImportRowError `json:"errors,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
	ProcessingMs    int64            `json:"processingMs"`
}
