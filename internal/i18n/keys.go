// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyInternalError = "error.internal"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthTooManyAttempts    = "auth.too_many_attempts"

	// Catalog entities. The "<entity>.not_found" shape is relied on by utils.NotFoundResponse.
	KeyProductNotFound     = "product.not_found"
	KeyProductCreated      = "product.created"
	KeyProductUpdated      = "product.updated"
	KeyProductFetchFailed  = "product.fetch_failed"
	KeyProductSaveFailed   = "product.save_failed"
	KeyProductDeleteFailed = "product.delete_failed"
	KeyProductDeleted      = "product.deleted"

	KeyCategoryNotFound     = "category.not_found"
	KeyCategoryCreated      = "category.created"
	KeyCategoryUpdated      = "category.updated"
	KeyCategoryFetchFailed  = "category.fetch_failed"
	KeyCategorySaveFailed   = "category.save_failed"
	KeyCategoryDeleteFailed = "category.delete_failed"
	KeyCategoryDeleted      = "category.deleted"
	KeyCategoryCycle        = "category.cycle"
	KeyCategoryUnknown      = "category.unknown"

	KeySetNotFound     = "set.not_found"
	KeySetCreated      = "set.created"
	KeySetUpdated      = "set.updated"
	KeySetDuplicated   = "set.duplicated"
	KeySetFetchFailed  = "set.fetch_failed"
	KeySetSaveFailed   = "set.save_failed"
	KeySetDeleteFailed = "set.delete_failed"
	KeySetDeleted      = "set.deleted"
	KeySetInvalidItems = "set.invalid_items"

	KeySlugTaken     = "slug.taken"
	KeyAlreadyExists = "entity.exists"
	KeyIDMismatch    = "request.id_mismatch"

	// Cart
	KeyCartInvalidID   = "cart.invalid_id"
	KeyCartEmpty       = "cart.empty"
	KeyCartFetchFailed = "cart.fetch_failed"
	KeyCartSaveFailed  = "cart.save_failed"
	KeyCartCleared     = "cart.cleared"
	KeyCartUpdated     = "cart.updated"
	KeyCartUnavailable = "cart.unavailable_items"

	// Checkout
	KeyOrderCreated       = "order.created"
	KeyOrderFailed        = "order.failed"
	KeyOrderItemsRequired = "order.items_required"
	KeyOrderCustomer      = "order.customer_required"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
	KeyFileNoneProvided  = "file.none_provided"
)
