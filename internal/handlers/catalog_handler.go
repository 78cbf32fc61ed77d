package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// CatalogHandler serves read access to the imported catalog.
type CatalogHandler struct {
	repo *repository.CatalogRepository
}

func NewCatalogHandler(repo *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// GetProducts retrieves products list with pagination
// GET /api/v1/products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	page, limit := parsePagination(c, 20)
	includeVariants := c.DefaultQuery("includeVariants", "false") == "true"

	products, total, err := h.repo.GetProducts(tenantID, page, limit, includeVariants)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DB_ERROR",
				Message: "Failed to retrieve products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: paginationInfo(page, limit, total),
	})
}

// GetProduct retrieves a single product by ID
// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	product, err := h.repo.GetProductByID(tenantID, productID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "NOT_FOUND",
					Message: "Product not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DB_ERROR",
				Message: "Failed to retrieve product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// GetProductVariants retrieves variants of a product with pagination
// GET /api/v1/products/:id/variants
func (h *CatalogHandler) GetProductVariants(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	page, limit := parsePagination(c, 20)

	variants, total, err := h.repo.GetProductVariants(tenantID, productID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DB_ERROR",
				Message: "Failed to retrieve variants",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductVariantListResponse{
		Success:    true,
		Data:       variants,
		Pagination: paginationInfo(page, limit, total),
	})
}

// GetCategories retrieves categories with pagination
// GET /api/v1/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	page, limit := parsePagination(c, 50)

	categories, total, err := h.repo.GetCategories(tenantID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DB_ERROR",
				Message: "Failed to retrieve categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.CategoryListResponse{
		Success:    true,
		Data:       categories,
		Pagination: paginationInfo(page, limit, total),
	})
}

func parsePagination(c *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

func paginationInfo(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
