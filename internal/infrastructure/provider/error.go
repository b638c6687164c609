// Package provider holds the structured error shape shared by the
// external service clients. Callers classify on Code, never on message
// text.
package provider

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Error is a non-2xx response from an external service.
type Error struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (code=%s, status=%d)", e.Service, e.Message, e.Code, e.StatusCode)
}

// Decode builds an Error from an error response body. codePath and
// messagePath are gjson paths into the provider's error shape; a body
// that doesn't parse still yields a usable Error with the raw text.
func Decode(service string, statusCode int, body []byte, codePath, messagePath string) *Error {
	e := &Error{
		Service:    service,
		StatusCode: statusCode,
		Code:       gjson.GetBytes(body, codePath).String(),
		Message:    gjson.GetBytes(body, messagePath).String(),
	}
	if e.Message == "" {
		e.Message = string(body)
	}
	return e
}
