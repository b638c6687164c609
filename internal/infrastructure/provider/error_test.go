package provider

import (
	"errors"
	"testing"
)

func TestDecode_StructuredBody(t *testing.T) {
	body := []byte(`{"type":"user_already_exists","message":"A user with the same email already exists","code":409}`)

	e := Decode("identity", 409, body, "type", "message")

	if e.Code != "user_already_exists" {
		t.Errorf("Code = %q, want %q", e.Code, "user_already_exists")
	}
	if e.Message != "A user with the same email already exists" {
		t.Errorf("Message = %q", e.Message)
	}
	if e.StatusCode != 409 {
		t.Errorf("StatusCode = %d, want 409", e.StatusCode)
	}
}

func TestDecode_UnparseableBody(t *testing.T) {
	e := Decode("payments", 502, []byte("bad gateway"), "code", "message")

	if e.Code != "" {
		t.Errorf("Code = %q, want empty", e.Code)
	}
	if e.Message != "bad gateway" {
		t.Errorf("Message = %q, want raw body", e.Message)
	}
}

func TestError_AsTarget(t *testing.T) {
	var wrapped error = &Error{Service: "bankdata", StatusCode: 500, Code: "INTERNAL_SERVER_ERROR"}

	var pe *Error
	if !errors.As(wrapped, &pe) {
		t.Fatal("errors.As failed to match *provider.Error")
	}
	if pe.Code != "INTERNAL_SERVER_ERROR" {
		t.Errorf("Code = %q", pe.Code)
	}
}
