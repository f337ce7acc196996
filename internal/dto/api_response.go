package dto

import "fmt"

// CodeSuccess is the only business code that means the call succeeded.
const CodeSuccess = 0

// APIResponse is the business envelope carried inside every decrypted response.
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data,omitempty"`
}

func (r APIResponse[T]) OK() bool {
	return r.Code == CodeSuccess
}

// BusinessError is a non-zero response code with the server message verbatim.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("business error %d: %s", e.Code, e.Message)
}

// Err returns nil on success and a *BusinessError otherwise.
func (r APIResponse[T]) Err() error {
	if r.OK() {
		return nil
	}
	return &BusinessError{Code: r.Code, Message: r.Message}
}

// Message is the payload of endpoints that only acknowledge.
type Message struct {
	Message string `json:"message"`
}

// Empty is the request body of endpoints that take no arguments.
type Empty struct{}
