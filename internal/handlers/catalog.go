// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/furniture-backend/internal/catalog"
	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// GET /catalog?category=&sort=&type=&collection=&q=
func (h *CatalogHandler) Browse(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	query := catalog.Query{
		CategorySlug: c.Query("category"),
		Sort:         catalog.Sort(c.DefaultQuery("sort", string(catalog.SortNameAsc))),
		ContentType:  catalog.ContentType(c.DefaultQuery("type", string(catalog.ContentAll))),
		Collection:   models.Collection(c.Query("collection")),
		Search:       c.Query("q"),
	}

	if !query.Sort.Valid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "sort"), nil)
		return
	}
	if !query.ContentType.Valid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "type"), nil)
		return
	}
	if !query.Collection.Valid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "collection"), nil)
		return
	}

	result, err := h.catalogService.Browse(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "product", i18n.KeyProductFetchFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"category":            result.Category,
		"products":            result.Products,
		"sets":                result.Sets,
		"showProductsHeading": result.ShowProductsHeading,
		"sort":                query.Sort,
		"type":                query.ContentType,
	})
}
