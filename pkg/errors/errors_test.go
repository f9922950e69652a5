package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeStorage, status: http.StatusServiceUnavailable, publicMsg: "storage unavailable", retryable: true, detailsOK: true},
		{code: CodeLLM, status: http.StatusBadGateway, publicMsg: "AI service error", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing vin")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing vin" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	withDetails := base.WithDetails(map[string]string{"field": "vin"})
	if withDetails.Details() == nil {
		t.Fatalf("expected details to be attached")
	}

	cause := fmt.Errorf("connection refused")
	wrapped := Wrap(CodeStorage, cause, "fetch sales")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("wrapped error should expose cause via Is")
	}
	if wrapped.Error() != "STORAGE_ERROR: fetch sales" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestWrapNilCause(t *testing.T) {
	wrapped := Wrap(CodeLLM, nil, "completion failed")
	if wrapped.Unwrap() != nil {
		t.Fatalf("nil cause should stay nil")
	}
	if wrapped.Code() != CodeLLM {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsAndIsCode(t *testing.T) {
	inner := New(CodeNotFound, "vehicle not found")
	outer := fmt.Errorf("handler: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatalf("expected typed error from chain")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", typed.Code())
	}

	if !IsCode(outer, CodeNotFound) {
		t.Fatalf("IsCode should find code through wrapping")
	}
	if IsCode(outer, CodeStorage) {
		t.Fatalf("IsCode matched wrong code")
	}
	if IsCode(nil, CodeInternal) {
		t.Fatalf("nil error should not match any code")
	}
}
