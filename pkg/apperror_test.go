package pkg

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNewDomainErrorSimple(t *testing.T) {
	e := NewDomainErrorSimple("NOT_FOUND", "Quotation not found", http.StatusNotFound)
	if e.HTTPStatus != http.StatusNotFound || e.Code != "NOT_FOUND" {
		t.Fatalf("unexpected error: %+v", e)
	}
	body := e.ToHTTPError()
	if body.Success || body.Message != "Quotation not found" || body.Stack != "" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if e.Error() != "NOT_FOUND: Quotation not found" {
		t.Fatalf("unexpected message: %s", e.Error())
	}
}

func TestNewDomainError_WrapsCause(t *testing.T) {
	cause := errors.New("dynamodb unavailable")
	e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)

	if !errors.Is(e, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if !strings.Contains(e.Error(), "dynamodb unavailable") {
		t.Fatalf("expected cause in message, got %s", e.Error())
	}
	body := e.ToHTTPErrorWithStack()
	if body.Stack == "" || !strings.Contains(body.Stack, "dynamodb unavailable") {
		t.Fatalf("expected stack with cause, got %q", body.Stack)
	}
}

func TestNewDomainError_NilCause(t *testing.T) {
	e := NewDomainError("X", "boom", nil, http.StatusInternalServerError)
	if e.Err == nil {
		t.Fatalf("expected synthesized cause")
	}
}
