package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrListNotFound is returned when a list is not found or not visible.
	ErrListNotFound = errors.New("list not found")
	// ErrItemNotFound is returned when an item does not exist under the list.
	ErrItemNotFound = errors.New("item not found")
	// ErrUserNotFound is returned when a username does not resolve to a user.
	ErrUserNotFound = errors.New("user not found")
	// ErrMemberNotFound is returned when no membership exists for the target user.
	ErrMemberNotFound = errors.New("membership not found")
	// ErrForbidden is returned when the actor's role does not permit the action.
	ErrForbidden = errors.New("insufficient role for this action")
	// ErrAlreadyMember is returned when adding a user who is already a member.
	ErrAlreadyMember = errors.New("user is already a member of this list")
	// ErrUsernameTaken is returned when registering or renaming to an existing username.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrLastOwner is returned when an operation would leave a list without an owner.
	ErrLastOwner = errors.New("list must retain at least one owner")
	// ErrOwnedListRemains is returned when account deletion is blocked because the
	// user is the sole owner of at least one list.
	ErrOwnedListRemains = errors.New("user is the last owner of a list")
	// ErrMissingFields is returned when required fields are absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrRoleRequired is returned when a role change request carries no role.
	ErrRoleRequired = errors.New("role is required")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("username or password is incorrect")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrListNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "LIST_NOT_FOUND")
	case ErrItemNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "ITEM_NOT_FOUND")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrMemberNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "MEMBER_NOT_FOUND")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrAlreadyMember:
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_MEMBER")
	case ErrUsernameTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case ErrLastOwner:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "LAST_OWNER")
	case ErrOwnedListRemains:
		return NewHTTPError(http.StatusConflict, err.Error(), "OWNED_LIST_REMAINS")
	case ErrMissingFields:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_FIELDS")
	case ErrRoleRequired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ROLE_REQUIRED")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrInvalidRefreshToken:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
