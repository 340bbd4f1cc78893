package errors

// Code represents an error code
type Code string

// Application error codes, per the match lifecycle error taxonomy.
const (
	CodeUnknown    Code = "UNKNOWN"     // Unknown or unspecified error
	CodeInternal   Code = "INTERNAL"    // Internal server error
	CodeValidation Code = "VALIDATION"  // Malformed or missing input fields
	CodeNotFound   Code = "NOT_FOUND"   // Expired or absent pending record
	CodeForbidden  Code = "FORBIDDEN"   // Non-participant attempted a participant-only action
	CodeAuthFailure Code = "AUTH_FAILURE" // Bearer token missing, invalid, or expired

	// Coordination-specific codes
	CodeBusy         Code = "BUSY"          // PlayerLock or PendingReport/Rematch already occupied
	CodeInvalidState Code = "INVALID_STATE" // Stale interaction-id or transition targeting the wrong state
	CodeResourceBusy Code = "RESOURCE_BUSY" // Rating-row lock could not be acquired within the timeout; retriable
)

// codeInfo stores metadata about each error code
type codeInfo struct {
	HTTPStatus int
}

var codeMap = map[Code]codeInfo{
	CodeUnknown:     {500},
	CodeInternal:    {500},
	CodeValidation:  {400},
	CodeNotFound:    {404},
	CodeForbidden:   {403},
	CodeAuthFailure: {401},

	CodeBusy:         {409},
	CodeInvalidState: {409},
	CodeResourceBusy: {500},
}

// HTTPStatusCode returns the corresponding HTTP status code
func (c Code) HTTPStatusCode() int {
	if info, ok := codeMap[c]; ok {
		return info.HTTPStatus
	}
	return 500
}
