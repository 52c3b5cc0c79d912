package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Code is the envelope status taxonomy. It is independent of the HTTP status.
type Code int

const (
	CodeSuccess             Code = 200
	CodeValidationFailed    Code = 400
	CodeInvalidCredentials  Code = 401
	CodeInactiveAccount     Code = 403
	CodeNoDataFound         Code = 404
	CodeAlreadyExists       Code = 409
	CodeOperationFailed     Code = 500
	CodeUnauthorized        Code = 1001
	CodeHeaderTokenMissing  Code = 1002
	CodeHeaderTokenInvalid  Code = 1003
	CodeOTPNotVerified      Code = 1004
	CodeUserAccountNotFound Code = 1005
	CodeInvalidPage         Code = 1006
	CodeMissingFields       Code = 1007
	CodeOperationNotAllowed Code = 1008
)

// MsgSomethingWentWrong is the only message callers see for unexpected failures.
const MsgSomethingWentWrong = "Something went wrong"

// AppError represents a custom application error carrying its HTTP status and envelope code.
type AppError struct {
	Status  int
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, code Code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return newAppError(fiber.StatusBadRequest, CodeValidationFailed, message)
}

func NewMissingFieldsError(message string) *AppError {
	return newAppError(fiber.StatusBadRequest, CodeMissingFields, message)
}

func NewInvalidPageError() *AppError {
	return newAppError(fiber.StatusBadRequest, CodeInvalidPage, "Requested page is out of range")
}

func NewUnauthorizedError(message string) *AppError {
	return newAppError(fiber.StatusUnauthorized, CodeUnauthorized, message)
}

func NewTokenMissingError() *AppError {
	return newAppError(fiber.StatusUnauthorized, CodeHeaderTokenMissing, "Authorization token missing")
}

func NewTokenInvalidError() *AppError {
	return newAppError(fiber.StatusUnauthorized, CodeHeaderTokenInvalid, "Invalid or expired token")
}

func NewInvalidCredentialsError(message string) *AppError {
	return newAppError(fiber.StatusUnauthorized, CodeInvalidCredentials, message)
}

func NewInactiveAccountError() *AppError {
	return newAppError(fiber.StatusForbidden, CodeInactiveAccount, "Unauthorized access")
}

func NewNotVerifiedError() *AppError {
	return newAppError(fiber.StatusForbidden, CodeOTPNotVerified, "User not verified")
}

func NewOperationNotAllowedError(message string) *AppError {
	return newAppError(fiber.StatusForbidden, CodeOperationNotAllowed, message)
}

func NewNotFoundError(message string) *AppError {
	return newAppError(fiber.StatusNotFound, CodeNoDataFound, message)
}

func NewAccountNotFoundError(message string) *AppError {
	return newAppError(fiber.StatusNotFound, CodeUserAccountNotFound, message)
}

func NewAlreadyExistsError(message string) *AppError {
	return newAppError(fiber.StatusConflict, CodeAlreadyExists, message)
}

func NewTooManyRequestsError() *AppError {
	return newAppError(fiber.StatusTooManyRequests, CodeOperationNotAllowed, "Too many requests, please try again later")
}

func NewServiceUnavailableError(message string) *AppError {
	return newAppError(fiber.StatusServiceUnavailable, CodeOperationFailed, message)
}

// NewInternalError wraps an unexpected failure. Its detail is never rendered.
func NewInternalError(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    CodeOperationFailed,
		Message: MsgSomethingWentWrong,
		Err:     err,
	}
}

// AsAppError returns err as an *AppError, wrapping anything unexpected as an internal error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// RespondWithError renders err as an envelope. Internal detail is dropped.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)
	return c.Status(appErr.Status).JSON(Envelope{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
