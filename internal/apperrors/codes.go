package apperrors

// Error codes grouped by domain
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"

	// Resources
	CodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	CodeBusinessNotFound ErrorCode = "BUSINESS_NOT_FOUND"
	CodeNotFound         ErrorCode = "NOT_FOUND"

	// Business logic
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeUserInactive       ErrorCode = "USER_INACTIVE"
	CodePasswordReuse      ErrorCode = "PASSWORD_REUSE"
	CodeDomainMismatch     ErrorCode = "DOMAIN_MISMATCH"

	// Billing
	CodeUnknownPackage   ErrorCode = "UNKNOWN_PACKAGE"
	CodeWebhookSignature ErrorCode = "WEBHOOK_SIGNATURE_INVALID"

	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)
