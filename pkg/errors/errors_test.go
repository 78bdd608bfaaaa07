package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestProcessingErrorMapsToTransformFailed(t *testing.T) {
	cause := stderrors.New("boom")
	var err error = &ProcessingError{Pass: "Creativity Enhancement", Err: cause}

	if !stderrors.Is(err, cause) {
		t.Fatalf("expected processing error to unwrap to its cause")
	}
	appErr := AsAppError(err)
	if appErr.Code != CodeTransformFailed {
		t.Fatalf("expected code %s, got %s", CodeTransformFailed, appErr.Code)
	}
	if appErr.Detail != "Creativity Enhancement" {
		t.Fatalf("expected pass name as detail, got %q", appErr.Detail)
	}
	if appErr.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", appErr.HTTPStatus)
	}
}

func TestWithDetailDoesNotMutatePredefined(t *testing.T) {
	_ = ErrInvalidParam.WithDetail("tone")
	if ErrInvalidParam.Detail != "" {
		t.Fatalf("predefined error was mutated: %q", ErrInvalidParam.Detail)
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	appErr := AsAppError(stderrors.New("plain"))
	if appErr.Code != CodeUnknown {
		t.Fatalf("expected unknown code, got %s", appErr.Code)
	}
	if !IsAppError(ErrJobNotFound) {
		t.Fatalf("expected predefined error to be an AppError")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := ErrJobNotFound.WithDetail("job-1")
	if !stderrors.Is(err, ErrJobNotFound) {
		t.Fatalf("copies with detail should match the predefined error")
	}
	if stderrors.Is(err, ErrNotFound) {
		t.Fatalf("different codes must not match")
	}
}
