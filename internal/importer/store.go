package importer

import (
	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// CatalogStore is the persistence surface the pipeline reconciles against.
// Lookup methods return gorm.ErrRecordNotFound when no row matches.
//
// GetVariantBySKU takes a tenant scope: when empty the lookup is global
// across all tenants (the platform's SKU registry behavior), otherwise it is
// restricted to that tenant. The scope the pipeline uses is a configuration
// choice, see SKUScope.
type CatalogStore interface {
	GetOrCreateCategoryByName(tenantID, name string) (*models.Category, bool, error)
	GetCategoryByID(tenantID string, categoryID uuid.UUID) (*models.Category, error)

	GetProductByName(tenantID, name string) (*models.Product, error)
	CreateProduct(tenantID string, product *models.Product) error
	UpdateProduct(tenantID string, productID uuid.UUID, updates map[string]interface{}) error

	GetVariantBySKU(sku, tenantScope string) (*models.ProductVariant, error)
	CreateVariant(variant *models.ProductVariant) error
	UpdateVariant(variantID uuid.UUID, updates map[string]interface{}) error

	ListProductsWithVariants(tenantID string) ([]models.Product, error)

	// WithTransaction runs fn against a transactional view of the store.
	// Returning an error rolls back everything fn did.
	WithTransaction(fn func(CatalogStore) error) error
}

// txPolicy decides the transaction boundary of one import call. Making the
// choice a value rather than an inline conditional lets both modes be tested
// independently of the persistence layer.
type txPolicy interface {
	Run(store CatalogStore, fn func(CatalogStore) error) error
}

// atomicPolicy executes the whole import inside a single transaction: any
// raised failure discards every mutation performed so far in the call.
type atomicPolicy struct{}

func (atomicPolicy) Run(store CatalogStore, fn func(CatalogStore) error) error {
	return store.WithTransaction(fn)
}

// bestEffortPolicy commits as it goes. Group failures are recorded, not
// raised, so a partially imported file stays partially imported. Callers
// opting into skip-and-continue accept this non-atomic behavior.
type bestEffortPolicy struct{}

func (bestEffortPolicy) Run(store CatalogStore, fn func(CatalogStore) error) error {
	return fn(store)
}

func policyFor(opts Options) txPolicy {
	if opts.SkipErrors {
		return bestEffortPolicy{}
	}
	return atomicPolicy{}
}
