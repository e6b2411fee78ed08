package util

import (
	"errors"
	"fmt"
)

// 错误类型，用 errors.Is 判断
var (
	ErrBadRequest    = errors.New("bad request")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// AppError 带类型的业务错误，Message 会原样返回给客户端
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func BadRequestf(format string, args ...interface{}) error {
	return &AppError{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExistsf(format string, args ...interface{}) error {
	return &AppError{Kind: ErrAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}
