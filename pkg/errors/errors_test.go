package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code      Code
		status    int
		retryable bool
	}{
		{CodeValidation, http.StatusBadRequest, false},
		{CodeConsistency, http.StatusUnprocessableEntity, false},
		{CodeNotFound, http.StatusNotFound, false},
		{CodeStateConflict, http.StatusUnprocessableEntity, false},
		{CodeSequenceCollision, http.StatusConflict, true},
		{CodeInternal, http.StatusInternalServerError, true},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.code, meta.HTTPStatus, tc.status)
		}
		if meta.Retryable != tc.retryable {
			t.Errorf("%s: retryable = %v, want %v", tc.code, meta.Retryable, tc.retryable)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "load order")
	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be preserved")
	}
	if As(err) == nil {
		t.Fatalf("expected As to find typed error")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(New(CodeSequenceCollision, "dup")) {
		t.Fatalf("sequence collision should be retryable")
	}
	if IsRetryable(New(CodeValidation, "bad input")) {
		t.Fatalf("validation errors should not be retryable")
	}
	if IsRetryable(fmt.Errorf("untyped")) {
		t.Fatalf("untyped errors should not be retryable")
	}
}
