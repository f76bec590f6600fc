// internal/handlers/errors.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/catalog"
	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/pricing"
	"github.com/javajoker/furniture-backend/internal/repository"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

// respondError maps known failures to 4xx responses. Anything else is logged
// and answered with the fixed failedKey message; the cause never reaches the client.
func respondError(c *gin.Context, err error, entity, failedKey string) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrIDMismatch):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyIDMismatch), nil)
	case errors.Is(err, services.ErrValidation):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	case errors.Is(err, services.ErrInvalidSetItems):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySetInvalidItems), pricing.ItemErrors(err))
	case errors.Is(err, catalog.ErrCategoryCycle):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryCycle), nil)
	case errors.Is(err, services.ErrUnknownCategory):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCategoryUnknown, detail(err)), nil)
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFoundResponse(c, entity)
	case errors.Is(err, repository.ErrDuplicateSlug):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeySlugTaken, detail(err)))
	case errors.Is(err, services.ErrAlreadyExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAlreadyExists))
	default:
		logrus.WithFields(logrus.Fields{
			"error":  err,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"entity": entity,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, i18n.T(lang, failedKey))
	}
}

// detail returns the text after the last ": " of a wrapped sentinel error.
func detail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
