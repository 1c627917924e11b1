package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyForbidden          = "error.forbidden"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyTokenRequired      = "error.token_required"
	ErrKeyTimeout            = "error.timeout"
	// ErrKeyCustomerNotFound is returned by the email gate for unknown emails.
	ErrKeyCustomerNotFound = "error.customer_not_found"
	ErrKeyCompanyNotFound  = "error.company_not_found"
	// ErrKeyUpstreamUnavailable means the record store could not serve the request.
	ErrKeyUpstreamUnavailable = "error.upstream_unavailable"
	// ErrKeyNotOwner is returned when a session addresses another customer's records.
	ErrKeyNotOwner = "error.not_owner"
)
