package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own copy and
// fall back to the "message" field.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountRejected    = "AUTH_ACCOUNT_REJECTED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden         = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly         = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly         = "AUTHZ_OWNER_ONLY"
	AuthzMissingPermission = "AUTHZ_MISSING_PERMISSION"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput     = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID        = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat    = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange     = "VALIDATION_INVALID_RANGE"
	ValidationTooShort         = "VALIDATION_TOO_SHORT"
	ValidationRequired         = "VALIDATION_REQUIRED"
	ValidationPasswordMismatch = "VALIDATION_PASSWORD_MISMATCH"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Members (MEMBER_) ====================
	MemberNotFound      = "MEMBER_NOT_FOUND"
	MemberInvalidStatus = "MEMBER_INVALID_STATUS"

	// ==================== Business profiles (BUSINESS_) ====================
	BusinessNotFound = "BUSINESS_NOT_FOUND"

	// ==================== Family (FAMILY_) ====================
	FamilyNotFound      = "FAMILY_NOT_FOUND"
	FamilyAlreadyExists = "FAMILY_ALREADY_EXISTS"

	// ==================== Ratings (RATING_) ====================
	RatingNotFound      = "RATING_NOT_FOUND"
	RatingInvalidValue  = "RATING_INVALID_VALUE"
	RatingInvalidStatus = "RATING_INVALID_STATUS"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadTooManyFiles    = "UPLOAD_TOO_MANY_FILES"
	UploadFailed          = "UPLOAD_FAILED"
	UploadNotSupported    = "UPLOAD_NOT_SUPPORTED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
