// internal/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/services"
	"github.com/javajoker/furniture-backend/internal/utils"
)

// maxUploadBody caps a whole multipart request.
const maxUploadBody = 20 * services.MaxImageSize

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// POST /upload-images (multipart: folderSlug, productSlug, images...)
func (h *UploadHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileNoneProvided), err.Error())
		return
	}

	result, err := h.storageService.UploadImages(c.Request.Context(),
		c.PostForm("folderSlug"), c.PostForm("productSlug"), form.File["images"])
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFiles):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileNoneProvided), nil)
		case errors.Is(err, services.ErrInvalidFolder):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "folderSlug"), nil)
		default:
			logrus.WithFields(logrus.Fields{
				"error": err,
				"path":  c.Request.URL.Path,
			}).Error("Image upload failed")
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		}
		return
	}

	if len(result.UploadedImages) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), result.Failed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":        i18n.T(lang, i18n.KeyFileUploadSuccess),
		"uploadedImages": result.UploadedImages,
		"failed":         result.Failed,
	})
}
