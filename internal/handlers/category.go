// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

type CategoryHandler struct {
	*EntityHandler[*models.Category]
	catalogService *services.CatalogService
}

func NewCategoryHandler(categoryService *services.CategoryService, catalogService *services.CatalogService) *CategoryHandler {
	return &CategoryHandler{
		EntityHandler: &EntityHandler[*models.Category]{
			service: categoryService,
			keys: entityKeys{
				name:         "category",
				plural:       "categories",
				created:      i18n.KeyCategoryCreated,
				updated:      i18n.KeyCategoryUpdated,
				deleted:      i18n.KeyCategoryDeleted,
				fetchFailed:  i18n.KeyCategoryFetchFailed,
				saveFailed:   i18n.KeyCategorySaveFailed,
				deleteFailed: i18n.KeyCategoryDeleteFailed,
			},
			newEntity: func() *models.Category { return &models.Category{} },
		},
		catalogService: catalogService,
	}
}

// GET /categories/tree
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.catalogService.CategoryTree(c.Request.Context())
	if err != nil {
		respondError(c, err, "category", i18n.KeyCategoryFetchFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": tree,
	})
}
