package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrListNotFound, http.StatusNotFound, "LIST_NOT_FOUND"},
		{ErrItemNotFound, http.StatusNotFound, "ITEM_NOT_FOUND"},
		{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{ErrMemberNotFound, http.StatusNotFound, "MEMBER_NOT_FOUND"},
		{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
		{ErrUsernameTaken, http.StatusConflict, "USERNAME_TAKEN"},
		{ErrLastOwner, http.StatusBadRequest, "LAST_OWNER"},
		{ErrOwnedListRemains, http.StatusConflict, "OWNED_LIST_REMAINS"},
		{ErrMissingFields, http.StatusBadRequest, "MISSING_FIELDS"},
		{ErrRoleRequired, http.StatusBadRequest, "ROLE_REQUIRED"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.err.Error(), httpErr.Message)
		})
	}
}

func TestMapErrorToHTTP_Unknown(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("database exploded"))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", httpErr.Code)
	// Internal details never leak to the client.
	assert.Equal(t, "internal server error", httpErr.Message)
}
