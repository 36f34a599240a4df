package repository

import (
	"fmt"
	"net/http"
)

// NetworkError 持久层返回的错误，Status 为 0 表示请求没有得到响应
type NetworkError struct {
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("network error: status %d: %s", e.Status, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is 404 与 ErrNotFound 匹配
func (e *NetworkError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

func notFound(id string) *NetworkError {
	return &NetworkError{Status: http.StatusNotFound, Message: fmt.Sprintf("record %q not found", id)}
}

func conflict(id string) *NetworkError {
	return &NetworkError{Status: http.StatusConflict, Message: fmt.Sprintf("record %q already exists", id)}
}

func unavailable(err error) *NetworkError {
	return &NetworkError{Message: err.Error(), Err: err}
}
