package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrStudentOnly     ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTutorOnly       ErrCode = "TUTOR_ACCESS_ONLY"
	ErrAdminOnly       ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Cart & Checkout ───────────────────────────────────────────────
	ErrCartEmpty        ErrCode = "CART_EMPTY"
	ErrAlreadyInCart    ErrCode = "ITEM_ALREADY_IN_CART"
	ErrOrderNotPending  ErrCode = "ORDER_NOT_PENDING"
	ErrPaymentUnchecked ErrCode = "PAYMENT_NOT_CONFIRMED"

	// ─── Interview ─────────────────────────────────────────────────────
	ErrUnknownMode        ErrCode = "UNKNOWN_TEST_MODE"
	ErrAttemptActive      ErrCode = "ATTEMPT_ALREADY_ACTIVE"
	ErrAttemptNotFound    ErrCode = "ATTEMPT_NOT_FOUND"
	ErrAttemptSubmitted   ErrCode = "ATTEMPT_ALREADY_SUBMITTED"
	ErrUnansweredRemain   ErrCode = "UNANSWERED_QUESTIONS_REMAIN"
	ErrInvalidAnswer      ErrCode = "INVALID_ANSWER"
	ErrNoQuestionsForMode ErrCode = "NO_QUESTIONS_FOR_MODE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "An account with this email already exists."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentOnly:
		return "This resource is restricted to students."
	case ErrTutorOnly:
		return "This resource is restricted to tutors."
	case ErrAdminOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Cart & Checkout ───────────────────────────────────────────────
	case ErrCartEmpty:
		return "Your cart is empty."
	case ErrAlreadyInCart:
		return "This item is already in your cart."
	case ErrOrderNotPending:
		return "This order is no longer awaiting payment."
	case ErrPaymentUnchecked:
		return "Please confirm that you have completed the payment."

	// ─── Interview ─────────────────────────────────────────────────────
	case ErrUnknownMode:
		return "Unknown test mode."
	case ErrAttemptActive:
		return "You already have an interview test in progress."
	case ErrAttemptNotFound:
		return "Interview attempt not found."
	case ErrAttemptSubmitted:
		return "This interview attempt has already been submitted."
	case ErrUnansweredRemain:
		return "You still have unanswered questions. Confirm to submit anyway."
	case ErrInvalidAnswer:
		return "The selected answer is not valid for this question."
	case ErrNoQuestionsForMode:
		return "No questions are available for this test mode."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
