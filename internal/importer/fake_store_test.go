package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// fakeStore is an in-memory CatalogStore. WithTransaction snapshots state and
// restores it when fn fails, so atomic rollback behavior is observable.
type fakeStore struct {
	categories map[string]*models.Category       // tenant|lower(name)
	products   map[string]*models.Product        // tenant|name
	variants   map[string]*models.ProductVariant // tenant|sku

	failCreateProduct map[string]error // product name -> induced error
	failCreateVariant map[string]error // sku -> induced error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories:        make(map[string]*models.Category),
		products:          make(map[string]*models.Product),
		variants:          make(map[string]*models.ProductVariant),
		failCreateProduct: make(map[string]error),
		failCreateVariant: make(map[string]error),
	}
}

func categoryKey(tenantID, name string) string {
	return tenantID + "|" + strings.ToLower(name)
}

func productKey(tenantID, name string) string {
	return tenantID + "|" + name
}

func variantKey(tenantID, sku string) string {
	return tenantID + "|" + sku
}

func (s *fakeStore) GetOrCreateCategoryByName(tenantID, name string) (*models.Category, bool, error) {
	if c, ok := s.categories[categoryKey(tenantID, name)]; ok {
		return c, false, nil
	}
	isActive := true
	c := &models.Category{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     name,
		Slug:     strings.ToLower(name),
		IsActive: &isActive,
	}
	s.categories[categoryKey(tenantID, name)] = c
	return c, true, nil
}

func (s *fakeStore) GetCategoryByID(tenantID string, categoryID uuid.UUID) (*models.Category, error) {
	for _, c := range s.categories {
		if c.TenantID == tenantID && c.ID == categoryID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) GetProductByName(tenantID, name string) (*models.Product, error) {
	if p, ok := s.products[productKey(tenantID, name)]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) CreateProduct(tenantID string, product *models.Product) error {
	if err, ok := s.failCreateProduct[product.Name]; ok {
		return err
	}
	product.TenantID = tenantID
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[productKey(tenantID, product.Name)] = product
	return nil
}

func (s *fakeStore) UpdateProduct(tenantID string, productID uuid.UUID, updates map[string]interface{}) error {
	for _, p := range s.products {
		if p.TenantID == tenantID && p.ID == productID {
			if v, ok := updates["description"].(*string); ok {
				p.Description = v
			}
			if v, ok := updates["base_price"].(string); ok {
				p.BasePrice = v
			}
			if v, ok := updates["is_active"].(bool); ok {
				p.IsActive = &v
			}
			if v, ok := updates["image_url"].(*string); ok {
				p.ImageURL = v
			}
			if v, ok := updates["category_id"].(uuid.UUID); ok {
				p.CategoryID = v
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *fakeStore) GetVariantBySKU(sku, tenantScope string) (*models.ProductVariant, error) {
	if tenantScope != "" {
		if v, ok := s.variants[variantKey(tenantScope, sku)]; ok {
			return v, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	for _, v := range s.variants {
		if v.SKU == sku {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) CreateVariant(variant *models.ProductVariant) error {
	if err, ok := s.failCreateVariant[variant.SKU]; ok {
		return err
	}
	key := variantKey(variant.TenantID, variant.SKU)
	if _, exists := s.variants[key]; exists {
		return fmt.Errorf("duplicate key value violates unique constraint %q", "idx_variants_tenant_sku")
	}
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	s.variants[key] = variant
	return nil
}

func (s *fakeStore) UpdateVariant(variantID uuid.UUID, updates map[string]interface{}) error {
	for _, v := range s.variants {
		if v.ID == variantID {
			if val, ok := updates["name"].(string); ok {
				v.Name = val
			}
			if val, ok := updates["price"].(string); ok {
				v.Price = val
			}
			if val, ok := updates["quantity"].(int); ok {
				v.Quantity = val
			}
			if val, ok := updates["barcode"].(*string); ok {
				v.Barcode = val
			}
			if val, ok := updates["attributes"].(*string); ok {
				v.Attributes = val
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *fakeStore) ListProductsWithVariants(tenantID string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.TenantID != tenantID {
			continue
		}
		copied := *p
		copied.Variants = nil
		for _, v := range s.variants {
			if v.ProductID == p.ID {
				vc := *v
				copied.Variants = append(copied.Variants, &vc)
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (s *fakeStore) WithTransaction(fn func(CatalogStore) error) error {
	snapshot := s.clone()
	if err := fn(s); err != nil {
		s.categories = snapshot.categories
		s.products = snapshot.products
		s.variants = snapshot.variants
		return err
	}
	return nil
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.categories {
		copied := *v
		c.categories[k] = &copied
	}
	for k, v := range s.products {
		copied := *v
		c.products[k] = &copied
	}
	for k, v := range s.variants {
		copied := *v
		c.variants[k] = &copied
	}
	return c
}
