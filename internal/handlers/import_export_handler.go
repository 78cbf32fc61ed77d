package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
)

// ImportExportHandler exposes the bulk catalog pipeline over HTTP.
// The events publisher may be nil when NATS is not configured.
type ImportExportHandler struct {
	service   *importer.Service
	publisher *events.Publisher
}

func NewImportExportHandler(service *importer.Service, publisher *events.Publisher) *ImportExportHandler {
	return &ImportExportHandler{service: service, publisher: publisher}
}

// ImportProducts imports products from a CSV or Excel file
// POST /api/v1/products/import
func (h *ImportExportHandler) ImportProducts(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	opts := importer.Options{
		UpdateExisting: c.DefaultPostForm("updateExisting", "false") == "true",
		SkipErrors:     c.DefaultPostForm("skipErrors", "false") == "true",
	}

	format, ok := formatFromFilename(header.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}

	result, err := h.service.Import(c.Request.Context(), tenantID, file, format, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   importErrorOf(err),
		})
		return
	}

	if h.publisher != nil {
		h.publisher.PublishImportCompleted(c.Request.Context(), tenantID, result)
	}

	c.JSON(http.StatusOK, result)
}

// ExportProducts streams the tenant's catalog as a CSV or Excel file
// GET /api/v1/products/export
func (h *ImportExportHandler) ExportProducts(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	format := models.ImportFormat(c.DefaultQuery("format", "csv"))
	if format != models.ImportFormatCSV && format != models.ImportFormatXLSX {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only csv and xlsx export formats are supported",
			},
		})
		return
	}

	filename := fmt.Sprintf("products_export_%s.%s", time.Now().Format("2006-01-02"), format)
	setDownloadHeaders(c, format, filename)

	if err := h.service.WriteExport(c.Writer, tenantID, format); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	if h.publisher != nil {
		h.publisher.PublishExportCompleted(c.Request.Context(), tenantID, format)
	}
}

// GetImportTemplate returns the import template definition or file
// GET /api/v1/products/import/template
func (h *ImportExportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	switch format {
	case "csv":
		setDownloadHeaders(c, models.ImportFormatCSV, "products_import_template.csv")
		if err := importer.WriteTemplate(c.Writer, models.ImportFormatCSV); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	case "xlsx":
		setDownloadHeaders(c, models.ImportFormatXLSX, "products_import_template.xlsx")
		if err := importer.WriteTemplate(c.Writer, models.ImportFormatXLSX); err != nil {
			c.Status(http.StatusInternalServerError)
		}
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": importer.TemplateDefinition(),
		})
	}
}

func formatFromFilename(filename string) (models.ImportFormat, bool) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return models.ImportFormatCSV, true
	case strings.HasSuffix(lower, ".xlsx"):
		return models.ImportFormatXLSX, true
	default:
		return "", false
	}
}

func setDownloadHeaders(c *gin.Context, format models.ImportFormat, filename string) {
	if format == models.ImportFormatCSV {
		c.Header("Content-Type", "text/csv")
	} else {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
}

// importErrorOf maps pipeline failures to response error codes.
func importErrorOf(err error) models.Error {
	var tooMany *importer.ErrTooManyRows
	var abort *importer.AbortError

	switch {
	case errors.Is(err, importer.ErrEmptyFile):
		return models.Error{Code: "EMPTY_FILE", Message: err.Error()}
	case errors.As(err, &tooMany):
		return models.Error{Code: "TOO_MANY_ROWS", Message: err.Error()}
	case errors.As(err, &abort):
		return models.Error{Code: "IMPORT_ABORTED", Message: err.Error()}
	default:
		return models.Error{Code: "PARSE_ERROR", Message: err.Error()}
	}
}
