// Package errors 提供统一的错误定义
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 资源错误 (3xxx)
	CodeJobNotFound ErrorCode = "3001"

	// 业务错误 (4xxx)
	CodeTransformFailed ErrorCode = "4001"
	CodeAnalysisFailed  ErrorCode = "4002"
	CodeQueueClosed     ErrorCode = "4003"

	// 外部服务错误 (5xxx)
	CodeCacheError     ErrorCode = "5002"
	CodeMessagingError ErrorCode = "5006"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 错误码相同即视为同一错误，WithDetail 产生的副本仍可用 errors.Is 判断
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithDetail 添加详细信息（返回副本，避免修改预定义错误）
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError 添加底层错误（返回副本）
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound, CodeJobNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable, CodeQueueClosed:
		return http.StatusServiceUnavailable
	case CodeTransformFailed, CodeAnalysisFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrJobNotFound  = New(CodeJobNotFound, "job not found")
	ErrQueueClosed  = New(CodeQueueClosed, "scheduler shut down")
	ErrCacheFailure = New(CodeCacheError, "cache store failure")
)

// ProcessingError 转换流水线中某个 pass 失败
type ProcessingError struct {
	Pass string
	Err  error
}

// Error 实现 error 接口
func (e *ProcessingError) Error() string {
	return fmt.Sprintf("pass %q failed: %v", e.Pass, e.Err)
}

// Unwrap 返回底层错误
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// AppError 转换为 AppError
func (e *ProcessingError) AppError() *AppError {
	return Wrap(e, CodeTransformFailed, "text transformation failed").WithDetail(e.Pass)
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		return procErr.AppError()
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
