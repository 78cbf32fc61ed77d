package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a product category. Categories are resolved by name,
// case-insensitively, within a tenant during import and auto-created when
// absent.
type Category struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string          `json:"tenantId" gorm:"not null;index:idx_categories_tenant_name,unique"`
	Name      string          `json:"name" gorm:"not null;index:idx_categories_tenant_name,unique"`
	Slug      string          `json:"slug" gorm:"not null"`
	IsActive  *bool           `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Product represents a product entity. Products are resolved by
// (tenant, name) during import.
type Product struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string            `json:"tenantId" gorm:"not null;index:idx_products_tenant_id;index:idx_products_tenant_name,unique"`
	CategoryID  uuid.UUID         `json:"categoryId" gorm:"type:uuid;not null;index"`
	Name        string            `json:"name" gorm:"not null;index:idx_products_tenant_name,unique"`
	Slug        *string           `json:"slug,omitempty" gorm:"index"`
	Description *string           `json:"description,omitempty"`
	BasePrice   string            `json:"basePrice" gorm:"not null"`
	IsActive    *bool             `json:"isActive" gorm:"default:true"`
	ImageURL    *string           `json:"imageUrl,omitempty" gorm:"column:image_url"`
	Variants    []*ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt   `json:"deletedAt,omitempty" gorm:"index"`
}

// ProductVariant represents a sellable variant of a product. SKU is the
// reconciliation key during import. Uniqueness is enforced per tenant; in
// global SKU scope the import lookup matches across tenants before creating,
// so a SKU never gets a second owner in that mode. TenantID is denormalized
// from the owning product so lookups can be tenant-scoped.
type ProductVariant struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID  uuid.UUID       `json:"productId" gorm:"type:uuid;not null;index"`
	TenantID   string          `json:"tenantId" gorm:"not null;index;index:idx_variants_tenant_sku,unique"`
	SKU        string          `json:"sku" gorm:"not null;index:idx_variants_tenant_sku,unique"`
	Name       string          `json:"name" gorm:"not null"`
	Price      string          `json:"price" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null;default:0"`
	Barcode    *string         `json:"barcode,omitempty"`
	Attributes *string         `json:"attributes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	DeletedAt  *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Response types

type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ProductVariantListResponse struct {
	Success    bool             `json:"success"`
	Data       []ProductVariant `json:"data"`
	Pagination *PaginationInfo  `json:"pagination"`
}

type CategoryListResponse struct {
	Success    bool            `json:"success"`
	Data       []Category      `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
