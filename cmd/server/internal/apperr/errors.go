package apperr

import (
	"errors"
	"fmt"
)

// Kind 表示错误所属的大类,决定 HTTP 状态码的映射方式。
type Kind string

const (
	// KindValidation 输入不合法(缺少文件、工具数量越界等)
	KindValidation Kind = "validation"

	// KindUpstream 上游 AI 服务失败(网络错误、非 2xx 响应、超时)
	KindUpstream Kind = "upstream"

	// KindStore 持久化层读写失败
	KindStore Kind = "store"

	// KindMalformed 路线图文档不是合法的文档结构
	KindMalformed Kind = "malformed_roadmap"

	// KindNotFound 目标资源不存在
	KindNotFound Kind = "not_found"

	// KindUnauthorized 未通过认证
	KindUnauthorized Kind = "unauthorized"
)

// 对外暴露的错误代码,与响应体 error.code 字段一致。
const (
	CodeMissingFile      = "MISSING_FILE"
	CodeInvalidFileType  = "INVALID_FILE_TYPE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeEmptyDocument    = "EMPTY_DOCUMENT"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeToolCountRange   = "TOOL_COUNT_OUT_OF_RANGE"
	CodeTimeout          = "TIMEOUT_ERROR"
	CodeUpstreamFailure  = "UPSTREAM_ERROR"
	CodeStoreFailure     = "STORE_ERROR"
	CodeMalformedRoadmap = "MALFORMED_ROADMAP"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
)

// Error 是服务内统一的错误类型,携带类别、代码与可选的底层原因。
type Error struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Timeout bool   `json:"-"`
	Cause   error  `json:"-"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现错误链支持
func (e *Error) Unwrap() error {
	return e.Cause
}

// New 创建一个指定类别与代码的错误。
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation 创建输入校验错误。
func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

// Upstream 创建上游服务错误。
func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Code: CodeUpstreamFailure, Message: message, Cause: cause}
}

// UpstreamTimeout 创建上游超时错误。超时是 Upstream 的子类,
// 通过 Timeout 标记区分,映射到 504。
func UpstreamTimeout(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Code: CodeTimeout, Message: message, Timeout: true, Cause: cause}
}

// Store 创建持久化层错误。
func Store(message string, cause error) *Error {
	return &Error{Kind: KindStore, Code: CodeStoreFailure, Message: message, Cause: cause}
}

// Malformed 创建路线图文档结构错误。
func Malformed(message string) *Error {
	return New(KindMalformed, CodeMalformedRoadmap, message)
}

// NotFound 创建资源不存在错误。
func NotFound(message string) *Error {
	return New(KindNotFound, CodeNotFound, message)
}

// Unauthorized 创建认证失败错误。
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, CodeUnauthorized, message)
}

// KindOf 返回错误的类别;非 *Error 一律视为 KindStore 之外的未知错误。
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

// IsTimeout 判断错误链中是否存在上游超时。
func IsTimeout(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Timeout
}

// IsKind 判断错误链中是否存在指定类别的错误。
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
