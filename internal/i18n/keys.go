// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError     = "error.internal"
	KeyRateLimitExceeded = "error.rate_limited"
	KeyInvalidRequest    = "validation.invalid_request"

	// Validation
	KeyValidationMissingFields = "validation.missing_fields"
	KeyValidationInvalidAadhar = "validation.invalid_aadhar"
	KeyValidationInvalid       = "validation.invalid"
	KeyValidationUnknownFarmer = "validation.unknown_farmer"
	KeyValidationUnknownItem   = "validation.unknown_product"
	KeyValidationEmptyOrder    = "validation.empty_order"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthForbidden          = "auth.forbidden"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyCustomerLoginFailed    = "auth.customer_login_failed"

	// Farmers
	KeyFarmerRegistered   = "farmer.registered"
	KeyFarmerExists       = "farmer.exists"
	KeyFarmerNotFound     = "farmer.not_found"
	KeyFarmerUpdated      = "farmer.updated"
	KeyFarmerFetchFailed  = "farmer.fetch_failed"
	KeyRegistrationFailed = "farmer.registration_failed"
	KeyLoginFailed        = "farmer.login_failed"

	// Products
	KeyProductNotFound     = "product.not_found"
	KeyProductDeleted      = "product.deleted"
	KeyProductFetchFailed  = "product.fetch_failed"
	KeyProductCreateFailed = "product.create_failed"
	KeyProductUpdateFailed = "product.update_failed"
	KeyProductDeleteFailed = "product.delete_failed"

	// Orders
	KeyOrderNotFound    = "order.not_found"
	KeyOrderFailed      = "order.create_failed"
	KeyOrderFetchFailed = "order.fetch_failed"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"
)
