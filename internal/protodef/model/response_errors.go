package model

import (
	"fmt"
	"net/http"
)

// ResponseError HTTP层错误。Status为返回的HTTP状态码，Code为自定义错误码。
type ResponseError struct {
	Code    int    `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

const (
	ResponseErrorBadRequest          = 400000
	ResponseErrorValidation          = 400001
	ResponseErrorInvalidState        = 400002
	ResponseErrorNotLoggedIn         = 401001
	ResponseErrorBadToken            = 401003
	ResponseErrorWrongCredential     = 401004
	ResponseErrorAdminOnly           = 403001
	ResponseErrorInterviewerOnly     = 403002
	ResponseErrorNotFound            = 404000
	ResponseErrorResourceUnavailable = 404001
	ResponseErrorInternal            = 500000
)

// NewResponseErrorBadRequest 参数错误。
func NewResponseErrorBadRequest() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadRequest,
		Status:  http.StatusBadRequest,
		Message: "bad request",
	}
}

func NewResponseErrorValidation(err error) *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorValidation,
		Status:  http.StatusBadRequest,
		Message: err.Error(),
	}
}

// NewResponseErrorInvalidState 状态不满足请求的流转，message携带当前状态便于排查。
func NewResponseErrorInvalidState(current string) *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorInvalidState,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("invalid state: %s", current),
	}
}

// NewResponseErrorNotLoggedIn 用户未登录。
func NewResponseErrorNotLoggedIn() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotLoggedIn,
		Status:  http.StatusUnauthorized,
		Message: "not logged in",
	}
}

// NewResponseErrorBadToken 登录token错误。
func NewResponseErrorBadToken() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadToken,
		Status:  http.StatusUnauthorized,
		Message: "bad token",
	}
}

func NewResponseErrorWrongCredential() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorWrongCredential,
		Status:  http.StatusUnauthorized,
		Message: "wrong username or password",
	}
}

func NewResponseErrorAdminOnly() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorAdminOnly,
		Status:  http.StatusForbidden,
		Message: "admin only",
	}
}

func NewResponseErrorInterviewerOnly() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorInterviewerOnly,
		Status:  http.StatusForbidden,
		Message: "interviewer only",
	}
}

func NewResponseErrorNotFound() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotFound,
		Status:  http.StatusNotFound,
		Message: "not found",
	}
}

// NewResponseErrorResourceUnavailable 资源不存在或不属于调用者。
// 两种情况对外一律同一个message，避免泄露资源是否存在。
func NewResponseErrorResourceUnavailable() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorResourceUnavailable,
		Status:  http.StatusNotFound,
		Message: "resource not found",
	}
}

// NewResponseErrorInternal 其他内部服务错误。
func NewResponseErrorInternal() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorInternal,
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
	}
}
