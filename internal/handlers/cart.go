// internal/handlers/cart.go
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/cart"
	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
	"github.com/javajoker/furniture-backend/internal/repository"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

// Set add modes: one bundle line, or one product line per configured item.
const (
	SetModeBundle   = "bundle"
	SetModeProducts = "products"
)

type CartHandler struct {
	carts           *cart.Manager
	catalogService  *services.CatalogService
	checkoutService *services.CheckoutService
}

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type AddSetRequest struct {
	Mode          string               `json:"mode" validate:"omitempty,oneof=bundle products"`
	Configuration []models.BundleEntry `json:"configuration" validate:"dive"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func NewCartHandler(carts *cart.Manager, catalogService *services.CatalogService, checkoutService *services.CheckoutService) *CartHandler {
	return &CartHandler{
		carts:           carts,
		catalogService:  catalogService,
		checkoutService: checkoutService,
	}
}

// GET /cart/:cartId
func (h *CartHandler) GetCart(c *gin.Context) {
	h.withCart(c, "", func(ctx context.Context, store *cart.Store) error {
		return nil
	})
}

// POST /cart/:cartId/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if _, err := h.catalogService.Product(c.Request.Context(), req.ProductID); err != nil {
		respondError(c, err, "product", i18n.KeyCartSaveFailed)
		return
	}

	h.withCart(c, i18n.KeyCartUpdated, func(ctx context.Context, store *cart.Store) error {
		return store.AddToCart(ctx, req.ProductID, req.Quantity)
	})
}

// POST /cart/:cartId/sets/:setId
//
// The configuration is clamped into the set's item bounds; items left out
// take their default quantity.
func (h *CartHandler) AddSet(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req AddSetRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	set, err := h.catalogService.Set(c.Request.Context(), c.Param("setId"))
	if err != nil {
		respondError(c, err, "set", i18n.KeyCartSaveFailed)
		return
	}

	selection := pricing.Normalize(set, cart.BundleSelection(req.Configuration))
	entries := make([]models.BundleEntry, 0, len(set.Items))
	for _, item := range set.Items {
		entries = append(entries, models.BundleEntry{ProductID: item.ProductID, Quantity: selection[item.ProductID]})
	}

	h.withCart(c, i18n.KeyCartUpdated, func(ctx context.Context, store *cart.Store) error {
		if req.Mode == SetModeProducts {
			return store.AddProductsFromSet(ctx, set.ID, entries)
		}
		return store.AddSetBundle(ctx, set.ID, entries)
	})
}

// PUT /cart/:cartId/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	h.withCart(c, i18n.KeyCartUpdated, func(ctx context.Context, store *cart.Store) error {
		return store.UpdateQuantity(ctx, c.Param("productId"), req.Quantity)
	})
}

// DELETE /cart/:cartId/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.withCart(c, i18n.KeyCartUpdated, func(ctx context.Context, store *cart.Store) error {
		return store.RemoveFromCart(ctx, c.Param("productId"))
	})
}

// DELETE /cart/:cartId
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.withCart(c, i18n.KeyCartCleared, func(ctx context.Context, store *cart.Store) error {
		return store.ClearCart(ctx)
	})
}

// POST /cart/:cartId/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if req.Customer == nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderCustomer), nil)
		return
	}

	ctx := c.Request.Context()
	var order *models.Order
	err := h.carts.With(ctx, c.Param("cartId"), func(store *cart.Store) error {
		products, sets, err := h.catalogService.Indexes(ctx)
		if err != nil {
			return err
		}
		order, err = h.checkoutService.CheckoutCart(ctx, store, &req, products, sets)
		return err
	})
	if err != nil {
		if errors.Is(err, cart.ErrInvalidKey) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartInvalidID), nil)
			return
		}
		if errors.Is(err, services.ErrEmptyOrder) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
			return
		}
		respondOrderError(c, err)
		return
	}

	respondOrderCreated(c, order)
}

// withCart runs fn on the cart named by the path while holding its lock and
// answers with the priced cart. An empty messageKey omits the message.
func (h *CartHandler) withCart(c *gin.Context, messageKey string, fn func(ctx context.Context, store *cart.Store) error) {
	lang := utils.GetLangFromContext(c)
	ctx := c.Request.Context()
	cartID := c.Param("cartId")

	var summary cart.Summary
	err := h.carts.With(ctx, cartID, func(store *cart.Store) error {
		if err := fn(ctx, store); err != nil {
			return err
		}
		var err error
		summary, err = h.catalogService.CartSummary(ctx, store.Items())
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidKey):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartInvalidID), nil)
		case errors.Is(err, cart.ErrInvalidProduct):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "productId"), nil)
		case errors.Is(err, repository.ErrNotFound):
			utils.NotFoundResponse(c, "product")
		default:
			logrus.WithFields(logrus.Fields{
				"error": err,
				"path":  c.Request.URL.Path,
				"cart":  cartID,
			}).Error("Cart operation failed")
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyCartSaveFailed))
		}
		return
	}

	data := gin.H{
		"cartId":     cartID,
		"items":      summary.Lines,
		"totalItems": summary.TotalItems,
		"subtotal":   summary.Subtotal,
	}
	if messageKey != "" {
		data["message"] = i18n.T(lang, messageKey)
	}
	utils.SuccessResponse(c, data)
}
