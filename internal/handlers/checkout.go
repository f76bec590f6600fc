// internal/handlers/checkout.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	respondOrderCreated(c, order)
}

func respondOrderCreated(c *gin.Context, order *models.Order) {
	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(utils.GetLangFromContext(c), i18n.KeyOrderCreated),
		"orderId":  order.ID,
		"subtotal": order.Subtotal,
		"order":    order,
	})
}

func respondOrderError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrEmptyOrder):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderItemsRequired), nil)
	case errors.Is(err, services.ErrMissingCustomer):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderCustomer), nil)
	case errors.Is(err, services.ErrValidation):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	case errors.Is(err, services.ErrUnavailableItems):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyCartUnavailable, detail(err)))
	default:
		logrus.WithFields(logrus.Fields{
			"error": err,
			"path":  c.Request.URL.Path,
		}).Error("Checkout failed")
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyOrderFailed))
	}
}
