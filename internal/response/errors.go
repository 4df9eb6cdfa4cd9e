package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"
	ErrInvalidID  ErrCode = "INVALID_ID"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Quiz-specific ─────────────────────────────────────────────────
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrSessionNotFound   ErrCode = "SESSION_NOT_FOUND"
	ErrSessionCompleted  ErrCode = "SESSION_COMPLETED"
	ErrSessionInProgress ErrCode = "SESSION_IN_PROGRESS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid password. Please try again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	case ErrValidation:
		return "Invalid question data. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."

	case ErrNotFound:
		return "Question not found."

	case ErrNoQuestions:
		return "No questions available. Please add some questions through the admin panel."
	case ErrSessionNotFound:
		return "Quiz session not found."
	case ErrSessionCompleted:
		return "This quiz session has already been completed."
	case ErrSessionInProgress:
		return "This quiz session is still in progress."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
