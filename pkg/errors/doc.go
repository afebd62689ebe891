// Package errors provides structured error handling with error codes for the
// user-role service.
//
// Services return *Error values carrying an ErrorCode; the HTTP layer turns the code
// into a status with MapErrorCodeToHTTPStatus. Errors without a code are treated as
// internal failures (500).
//
// # Basic Usage
//
//	import apperrors "github.com/tendant/user-role-service/pkg/errors"
//
//	// Give a repository miss its code; other failures pass through unchanged
//	return role.Role{}, apperrors.WrapIf(err, ErrRoleNotFound, apperrors.ErrCodeRoleNotFound, "role not found: "+id)
//
//	// Presence checks on input
//	return user.User{}, apperrors.InvalidInput("userId", "must not be empty")
//
// # Error Inspection
//
//	if apperrors.IsCode(err, apperrors.ErrCodeUserNotFound) {
//		// Handle not found case
//	}
//
//	status := apperrors.HTTPStatus(err)
//
// Error code to HTTP status mapping:
//   - ErrCodeInvalidInput, ErrCodeUnsupportedMedia → 400 Bad Request
//   - ErrCodeUserNotFound, ErrCodeRoleNotFound → 404 Not Found
//   - ErrCodeInternal and anything unstructured → 500 Internal Server Error
package errors
