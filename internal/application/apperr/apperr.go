// Package apperr 定義應用層對外的錯誤型別，HTTP 層依 Code 決定狀態碼。
package apperr

import (
	"errors"
	"fmt"
)

// Severity 錯誤嚴重程度。
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// 錯誤代碼。
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInvalidDate     = "INVALID_DATE"
	CodeIncomplete      = "INCOMPLETE_PROFILE"
	CodeUnauthorized    = "AUTH_UNAUTHORIZED"
	CodeForbidden       = "AUTH_FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeCalendar        = "CALENDAR_ERROR"
	CodeDataUnavailable = "DATA_UNAVAILABLE"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError 帶有代碼與嚴重程度的錯誤。
type AppError struct {
	Code      string
	Severity  Severity
	Message   string
	Retryable bool
	Err       error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// New 建立 AppError，嚴重程度預設 error。
func New(code, msg string, err error) *AppError {
	return &AppError{Code: code, Severity: SeverityError, Message: msg, Err: err}
}

// Invalid 使用者輸入錯誤。
func Invalid(code, msg string, err error) *AppError {
	return &AppError{Code: code, Severity: SeverityWarning, Message: msg, Err: err}
}

// Transient 可重試的外部錯誤。
func Transient(code, msg string, err error) *AppError {
	return &AppError{Code: code, Severity: SeverityError, Message: msg, Retryable: true, Err: err}
}

// As 取出鏈上的 AppError。
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf 回傳錯誤代碼，非 AppError 視為內部錯誤。
func CodeOf(err error) string {
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return CodeInternal
}
