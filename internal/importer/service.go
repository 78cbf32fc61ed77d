package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// ErrEmptyFile is returned when a file parses but holds no data rows.
var ErrEmptyFile = errors.New("the file contains no data rows")

// AbortError wraps the failure that aborted an atomic import. Everything the
// import had written was rolled back.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string { return e.Err.Error() }
func (e *AbortError) Unwrap() error { return e.Err }

// SKUScope controls how variants are matched by SKU during reconciliation.
type SKUScope string

const (
	// SKUScopeGlobal matches variants across all tenants, mirroring the
	// platform's global SKU registry. This is the default.
	SKUScopeGlobal SKUScope = "global"
	// SKUScopeTenant restricts variant matching to the importing tenant.
	SKUScopeTenant SKUScope = "tenant"
)

// Options are the per-call import policies.
type Options struct {
	// UpdateExisting overwrites matched products/variants instead of
	// reusing them untouched.
	UpdateExisting bool
	// SkipErrors excludes invalid rows and records group failures instead
	// of aborting the whole import.
	SkipErrors bool
}

// Config carries the service-level pipeline settings.
type Config struct {
	SKUScope SKUScope
	// MaxRows caps data rows per file; 0 disables the cap.
	MaxRows int
}

// Service runs the bulk catalog import/export pipeline.
type Service struct {
	store    CatalogStore
	logger   *logrus.Entry
	skuScope SKUScope
	maxRows  int

	mu          sync.Mutex
	tenantLocks map[string]*sync.Mutex
}

// NewService creates the pipeline service.
func NewService(store CatalogStore, logger *logrus.Logger, cfg Config) *Service {
	scope := cfg.SKUScope
	if scope == "" {
		scope = SKUScopeGlobal
	}
	return &Service{
		store:       store,
		logger:      logrus.NewEntry(logger).WithField("component", "importer"),
		skuScope:    scope,
		maxRows:     cfg.MaxRows,
		tenantLocks: make(map[string]*sync.Mutex),
	}
}

// tenantLock returns the mutex serializing imports for one tenant. Two
// concurrent imports for the same tenant would otherwise race on
// category/product resolution and create duplicates.
func (s *Service) tenantLock(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.tenantLocks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.tenantLocks[tenantID] = lock
	}
	return lock
}

// Import parses the file, validates and groups its rows, and reconciles
// every product group against the catalog. With SkipErrors unset the call is
// atomic: any failure returns an error and no mutation is retained. With
// SkipErrors set the call always returns a result; failed rows and groups
// are recorded inside it.
func (s *Service) Import(ctx context.Context, tenantID string, file io.Reader, format models.ImportFormat, opts Options) (*models.ImportResult, error) {
	start := time.Now()

	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	reader, err := NewReader(file, format, s.maxRows)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var rows []*NormalizedRow
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Normalize(row))
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	groups := GroupRows(rows)
	result := &models.ImportResult{TotalRows: len(rows)}

	err = policyFor(opts).Run(s.store, func(store CatalogStore) error {
		for i := range groups {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.reconcileGroup(store, tenantID, groups[i], opts, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"tenantId":  tenantID,
			"totalRows": len(rows),
		}).WithError(err).Warn("Import aborted")
		return nil, &AbortError{Err: err}
	}

	result.Success = result.ErrorCount == 0
	result.ProcessingMs = time.Since(start).Milliseconds()

	s.logger.WithFields(logrus.Fields{
		"tenantId":     tenantID,
		"totalRows":    result.TotalRows,
		"successCount": result.SuccessCount,
		"errorCount":   result.ErrorCount,
		"processingMs": result.ProcessingMs,
	}).Info("Import completed")

	return result, nil
}

// reconcileGroup applies one product group. Counting is per product: a
// cleanly completed group increments SuccessCount by one regardless of how
// many variant rows it carried.
func (s *Service) reconcileGroup(store CatalogStore, tenantID string, group ProductGroup, opts Options, result *models.ImportResult) error {
	valid := make([]*NormalizedRow, 0, len(group.Rows))
	for _, row := range group.Rows {
		if row.Valid() {
			valid = append(valid, row)
			continue
		}

		result.Errors = append(result.Errors, row.Errors...)
		result.ErrorCount++
		if !opts.SkipErrors {
			return fmt.Errorf("row %d failed validation: %s", row.Line, joinErrorMessages(row.Errors))
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("row %d skipped: %s", row.Line, joinErrorMessages(row.Errors)))
	}

	if len(valid) == 0 {
		return nil
	}

	outcome, err := s.applyGroup(store, tenantID, group.Key, valid, opts)
	if err != nil {
		wrapped := fmt.Errorf("failed to import product %q: %w", group.Key, err)
		result.Errors = append(result.Errors, models.ImportRowError{
			Row:     valid[0].Line,
			Code:    models.ErrCodeReconcileFailed,
			Message: wrapped.Error(),
		})
		result.ErrorCount++
		if !opts.SkipErrors {
			return wrapped
		}
		return nil
	}

	result.Outcomes = append(result.Outcomes, *outcome)
	tallyOutcome(result, outcome)
	result.SuccessCount++
	return nil
}

// applyGroup resolves the category, the product, and every variant row for
// one group.
func (s *Service) applyGroup(store CatalogStore, tenantID, key string, rows []*NormalizedRow, opts Options) (*models.GroupOutcome, error) {
	first := rows[0]

	category, created, err := store.GetOrCreateCategoryByName(tenantID, first.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category %q: %w", first.CategoryName, err)
	}
	if created {
		s.logger.WithFields(logrus.Fields{
			"tenantId": tenantID,
			"category": category.Name,
		}).Debug("Category created during import")
	}

	outcome := &models.GroupOutcome{
		Product:  key,
		Variants: make(map[string]string, len(rows)),
	}

	product, err := store.GetProductByName(tenantID, key)
	switch {
	case err == nil && opts.UpdateExisting:
		updates := map[string]interface{}{
			"description": optionalString(first.Description),
			"base_price":  formatPrice(first.BasePrice),
			"is_active":   first.Active,
			"image_url":   optionalString(first.ImageURL),
			"category_id": category.ID,
		}
		if err := store.UpdateProduct(tenantID, product.ID, updates); err != nil {
			return nil, fmt.Errorf("failed to update product %q: %w", key, err)
		}
		outcome.ProductOutcome = models.OutcomeUpdated

	case err == nil:
		outcome.ProductOutcome = models.OutcomeReused

	case errors.Is(err, gorm.ErrRecordNotFound):
		active := first.Active
		product = &models.Product{
			TenantID:    tenantID,
			CategoryID:  category.ID,
			Name:        key,
			Description: optionalString(first.Description),
			BasePrice:   formatPrice(first.BasePrice),
			IsActive:    &active,
			ImageURL:    optionalString(first.ImageURL),
		}
		if err := store.CreateProduct(tenantID, product); err != nil {
			return nil, fmt.Errorf("failed to create product %q: %w", key, err)
		}
		outcome.ProductOutcome = models.OutcomeCreated

	default:
		return nil, fmt.Errorf("failed to look up product %q: %w", key, err)
	}

	for _, row := range rows {
		variantOutcome, err := s.reconcileVariant(store, tenantID, product, row, opts)
		if err != nil {
			return nil, err
		}
		outcome.Variants[row.SKU] = variantOutcome
	}

	return outcome, nil
}

// reconcileVariant matches one row's variant by SKU and creates, updates, or
// reuses it per the import options.
func (s *Service) reconcileVariant(store CatalogStore, tenantID string, product *models.Product, row *NormalizedRow, opts Options) (string, error) {
	scope := ""
	if s.skuScope == SKUScopeTenant {
		scope = tenantID
	}

	variant, err := store.GetVariantBySKU(row.SKU, scope)
	switch {
	case err == nil && opts.UpdateExisting:
		updates := map[string]interface{}{
			"name":       variantName(row),
			"price":      formatPrice(row.VariantPrice),
			"quantity":   row.Stock,
			"barcode":    optionalString(row.Barcode),
			"attributes": optionalString(row.Attributes),
		}
		if err := store.UpdateVariant(variant.ID, updates); err != nil {
			return "", fmt.Errorf("failed to update variant %q: %w", row.SKU, err)
		}
		return models.OutcomeUpdated, nil

	case err == nil:
		return models.OutcomeReused, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		v := &models.ProductVariant{
			ProductID:  product.ID,
			TenantID:   tenantID,
			SKU:        row.SKU,
			Name:       variantName(row),
			Price:      formatPrice(row.VariantPrice),
			Quantity:   row.Stock,
			Barcode:    optionalString(row.Barcode),
			Attributes: optionalString(row.Attributes),
		}
		if err := store.CreateVariant(v); err != nil {
			return "", fmt.Errorf("failed to create variant %q: %w", row.SKU, err)
		}
		return models.OutcomeCreated, nil

	default:
		return "", fmt.Errorf("failed to look up variant %q: %w", row.SKU, err)
	}
}

func tallyOutcome(result *models.ImportResult, outcome *models.GroupOutcome) {
	switch outcome.ProductOutcome {
	case models.OutcomeCreated:
		result.CreatedProducts++
	case models.OutcomeUpdated:
		result.UpdatedProducts++
	case models.OutcomeReused:
		result.ReusedProducts++
	}
	for _, v := range outcome.Variants {
		switch v {
		case models.OutcomeCreated:
			result.CreatedVariants++
		case models.OutcomeUpdated:
			result.UpdatedVariants++
		case models.OutcomeReused:
			result.ReusedVariants++
		}
	}
}

// variantName falls back to "Default" when the cell was blank, so the stored
// name matches what a zero-variant export would show.
func variantName(row *NormalizedRow) string {
	if row.VariantName != "" {
		return row.VariantName
	}
	return "Default"
}

func joinErrorMessages(errs []models.ImportRowError) string {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return strings.Join(messages, "; ")
}

// optionalString returns nil for empty strings, pointer otherwise
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
