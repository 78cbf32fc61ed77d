package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/importer"
	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL  = 5 * time.Minute  // Single product cache
	CategoryCacheTTL = 30 * time.Minute // Categories rarely change
)

// CatalogRepository persists the catalog and backs both the HTTP read
// endpoints and the import/export pipeline. Redis is optional: a nil client
// degrades to direct database access.
type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{
		db:    db,
		redis: redisClient,
	}
}

// WithTransaction runs fn against a transactional clone of the repository.
// The clone shares the redis client; invalidation inside an eventually
// rolled-back transaction only costs a cache miss.
func (r *CatalogRepository) WithTransaction(fn func(importer.CatalogStore) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&CatalogRepository{db: tx, redis: r.redis})
	})
}

// invalidateProductCaches invalidates caches related to a product
func (r *CatalogRepository) invalidateProductCaches(ctx context.Context, tenantID string, productID uuid.UUID) {
	if r.redis == nil {
		return
	}
	r.redis.Del(ctx,
		fmt.Sprintf("product:%s:%s:true", tenantID, productID.String()),
		fmt.Sprintf("product:%s:%s:false", tenantID, productID.String()))
}

// invalidateCategoryCaches invalidates category caches for a tenant
func (r *CatalogRepository) invalidateCategoryCaches(ctx context.Context, tenantID string, categoryID *uuid.UUID) {
	if r.redis == nil {
		return
	}
	if categoryID != nil {
		r.redis.Del(ctx, fmt.Sprintf("category:%s:%s", tenantID, categoryID.String()))
	}
}

// Category Operations

// GetOrCreateCategoryByName finds a category by name or creates it if not exists.
// Returns the category and a boolean indicating if it was newly created.
// Uses a transaction to handle race conditions with concurrent imports.
func (r *CatalogRepository) GetOrCreateCategoryByName(tenantID string, name string) (*models.Category, bool, error) {
	var category models.Category
	var created bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tenant_id = ? AND LOWER(name) = LOWER(?)", tenantID, name).First(&category).Error
		if err == nil {
			created = false
			return nil
		}

		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to lookup category: %w", err)
		}

		isActive := true
		category = models.Category{
			TenantID:  tenantID,
			Name:      name,
			Slug:      generateSlug(name),
			IsActive:  &isActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := tx.Create(&category).Error; err != nil {
			// Check if it was created by a concurrent request
			if strings.Contains(err.Error(), "duplicate") {
				if findErr := tx.Where("tenant_id = ? AND LOWER(name) = LOWER(?)", tenantID, name).First(&category).Error; findErr == nil {
					created = false
					return nil
				}
			}
			return fmt.Errorf("failed to create category '%s': %w", name, err)
		}

		created = true
		return nil
	})

	if err != nil {
		return nil, false, err
	}

	return &category, created, nil
}

// GetCategoryByID retrieves a category by ID with caching
func (r *CatalogRepository) GetCategoryByID(tenantID string, categoryID uuid.UUID) (*models.Category, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("category:%s:%s", tenantID, categoryID.String())

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var category models.Category
			if err := json.Unmarshal([]byte(val), &category); err == nil {
				return &category, nil
			}
		}
	}

	var category models.Category
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, categoryID).First(&category).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(category); err == nil {
			r.redis.Set(ctx, cacheKey, data, CategoryCacheTTL)
		}
	}

	return &category, nil
}

// GetCategories retrieves categories with pagination
func (r *CatalogRepository) GetCategories(tenantID string, page, limit int) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := r.db.Model(&models.Category{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Product Operations

// GetProductByName retrieves a product by exact name within a tenant
func (r *CatalogRepository) GetProductByName(tenantID, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a new product
func (r *CatalogRepository) CreateProduct(tenantID string, product *models.Product) error {
	product.TenantID = tenantID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	// Ensure product has an ID before generating slug (for uniqueness)
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	if product.Slug == nil || *product.Slug == "" {
		uniqueSlug := fmt.Sprintf("%s-%s", generateSlug(product.Name), product.ID.String()[:8])
		product.Slug = &uniqueSlug
	}

	return r.db.Create(product).Error
}

// UpdateProduct applies a partial update to a product
func (r *CatalogRepository) UpdateProduct(tenantID string, productID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateProductCaches(context.Background(), tenantID, productID)
	return nil
}

// GetProductByID retrieves a product by ID with caching
func (r *CatalogRepository) GetProductByID(tenantID string, productID uuid.UUID, includeVariants bool) (*models.Product, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("product:%s:%s:%v", tenantID, productID.String(), includeVariants)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	query := r.db.Where("tenant_id = ? AND id = ?", tenantID, productID)
	if includeVariants {
		query = query.Preload("Variants")
	}
	if err := query.First(&product).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}

	return &product, nil
}

// GetProducts retrieves products with pagination
func (r *CatalogRepository) GetProducts(tenantID string, page, limit int, includeVariants bool) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.Model(&models.Product{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	query = query.Order("name ASC").Offset(offset).Limit(limit)
	if includeVariants {
		query = query.Preload("Variants")
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListProductsWithVariants retrieves every product of a tenant with variants
// preloaded, in stable name order. Used by export.
func (r *CatalogRepository) ListProductsWithVariants(tenantID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("tenant_id = ?", tenantID).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sku ASC")
		}).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Variant Operations

// GetVariantBySKU retrieves a variant by SKU. An empty tenantScope searches
// across all tenants; otherwise the lookup is restricted to that tenant.
func (r *CatalogRepository) GetVariantBySKU(sku, tenantScope string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	query := r.db.Where("sku = ?", sku)
	if tenantScope != "" {
		query = query.Where("tenant_id = ?", tenantScope)
	}
	if err := query.First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// CreateVariant creates a new product variant
func (r *CatalogRepository) CreateVariant(variant *models.ProductVariant) error {
	variant.CreatedAt = time.Now()
	variant.UpdatedAt = time.Now()
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	return r.db.Create(variant).Error
}

// UpdateVariant applies a partial update to a variant
func (r *CatalogRepository) UpdateVariant(variantID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetProductVariants retrieves variants of a product with pagination
func (r *CatalogRepository) GetProductVariants(tenantID string, productID uuid.UUID, page, limit int) ([]models.ProductVariant, int64, error) {
	var variants []models.ProductVariant
	var total int64

	query := r.db.Model(&models.ProductVariant{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("sku ASC").Offset(offset).Limit(limit).Find(&variants).Error; err != nil {
		return nil, 0, err
	}
	return variants, total, nil
}

func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
