// internal/handlers/entity.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/repository"
	"github.com/javajoker/furniture-backend/internal/utils"
)

type entityService[T repository.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	GetBySlug(ctx context.Context, slug string) (T, error)
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, id string, entity T) (T, error)
	Delete(ctx context.Context, id string) error
}

// entityKeys names an entity kind in responses and messages.
type entityKeys struct {
	name         string
	plural       string
	created      string
	updated      string
	deleted      string
	fetchFailed  string
	saveFailed   string
	deleteFailed string
}

// EntityHandler serves the CRUD routes shared by products, categories and sets.
type EntityHandler[T repository.Entity] struct {
	service   entityService[T]
	keys      entityKeys
	newEntity func() T
}

// GET /:entities
func (h *EntityHandler[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, h.keys.name, h.keys.fetchFailed)
		return
	}

	if params, ok := utils.GetPaginationParams(c); ok {
		utils.PaginatedResponse(c, utils.Paginate(items, params))
		return
	}

	utils.SuccessResponse(c, gin.H{
		h.keys.plural: items,
		"total":       len(items),
	})
}

// GET /:entities/:id
func (h *EntityHandler[T]) Get(c *gin.Context) {
	entity, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.keys.name, h.keys.fetchFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		h.keys.name: entity,
	})
}

// GET /:entities/slug/:slug
func (h *EntityHandler[T]) GetBySlug(c *gin.Context) {
	entity, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, h.keys.name, h.keys.fetchFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		h.keys.name: entity,
	})
}

// POST /:entities
func (h *EntityHandler[T]) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entity := h.newEntity()
	if err := c.ShouldBindJSON(entity); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), entity)
	if err != nil {
		respondError(c, err, h.keys.name, h.keys.saveFailed)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   i18n.T(lang, h.keys.created),
		h.keys.name: created,
	})
}

// PUT /:entities/:id
func (h *EntityHandler[T]) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	entity := h.newEntity()
	if err := c.ShouldBindJSON(entity); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), entity)
	if err != nil {
		respondError(c, err, h.keys.name, h.keys.saveFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, h.keys.updated),
		h.keys.name: updated,
	})
}

// DELETE /:entities/:id
func (h *EntityHandler[T]) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, h.keys.name, h.keys.deleteFailed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, h.keys.deleted),
	})
}
