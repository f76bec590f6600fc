// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

const defaultRelatedLimit = 8

type ProductHandler struct {
	*EntityHandler[*models.Product]
	catalogService *services.CatalogService
}

func NewProductHandler(productService *services.ProductService, catalogService *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		EntityHandler: &EntityHandler[*models.Product]{
			service: productService,
			keys: entityKeys{
				name:         "product",
				plural:       "products",
				created:      i18n.KeyProductCreated,
				updated:      i18n.KeyProductUpdated,
				deleted:      i18n.KeyProductDeleted,
				fetchFailed:  i18n.KeyProductFetchFailed,
				saveFailed:   i18n.KeyProductSaveFailed,
				deleteFailed: i18n.KeyProductDeleteFailed,
			},
			newEntity: func() *models.Product { return &models.Product{} },
		},
		catalogService: catalogService,
	}
}

// GET /products/:id/related
func (h *ProductHandler) GetRelated(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRelatedLimit)))
	if err != nil || limit < 0 {
		limit = defaultRelatedLimit
	}

	products, err := h.catalogService.Related(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "product", i18n.KeyProductFetchFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
	})
}
