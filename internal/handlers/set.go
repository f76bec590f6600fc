// internal/handlers/set.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

type SetHandler struct {
	*EntityHandler[*models.ProductSet]
	setService     *services.SetService
	catalogService *services.CatalogService
}

func NewSetHandler(setService *services.SetService, catalogService *services.CatalogService) *SetHandler {
	return &SetHandler{
		EntityHandler: &EntityHandler[*models.ProductSet]{
			service: setService,
			keys: entityKeys{
				name:         "set",
				plural:       "sets",
				created:      i18n.KeySetCreated,
				updated:      i18n.KeySetUpdated,
				deleted:      i18n.KeySetDeleted,
				fetchFailed:  i18n.KeySetFetchFailed,
				saveFailed:   i18n.KeySetSaveFailed,
				deleteFailed: i18n.KeySetDeleteFailed,
			},
			newEntity: func() *models.ProductSet { return &models.ProductSet{} },
		},
		setService:     setService,
		catalogService: catalogService,
	}
}

// GET /sets/:id/price?qty[productId]=n
func (h *SetHandler) GetPrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	selection := pricing.Selection{}
	for productID, raw := range c.QueryMap("qty") {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "qty["+productID+"]"), nil)
			return
		}
		selection[productID] = qty
	}

	price, err := h.catalogService.PriceSet(c.Request.Context(), c.Param("id"), selection)
	if err != nil {
		respondError(c, err, "set", i18n.KeySetFetchFailed)
		return
	}

	utils.SuccessResponse(c, price)
}

// POST /admin/sets/:id/duplicate
func (h *SetHandler) Duplicate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	set, err := h.setService.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "set", i18n.KeySetSaveFailed)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySetDuplicated),
		"set":     set,
	})
}
