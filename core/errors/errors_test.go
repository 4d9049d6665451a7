package errors

import (
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("verse", "2:255")
	if err.Error() != "verse not found: 2:255" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}

	var nf *NotFoundError
	if !As(err, &nf) {
		t.Fatal("As should match *NotFoundError")
	}
	if nf.Resource != "verse" || nf.Ref != "2:255" {
		t.Errorf("fields = %+v", nf)
	}

	bare := NewNotFound("root", "")
	if bare.Error() != "root not found" {
		t.Errorf("Error() without ref = %q", bare.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("q", "query must be at least 2 characters")
	if !Is(err, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}
	if err.Error() != "validation failed for q: query must be at least 2 characters" {
		t.Errorf("Error() = %q", err.Error())
	}
	if Is(err, ErrNotFound) {
		t.Error("ValidationError should not match ErrNotFound")
	}
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailable("morphology")
	if !Is(err, ErrDataUnavailable) {
		t.Error("UnavailableError should unwrap to ErrDataUnavailable")
	}
	if err.Error() != "dataset unavailable: morphology" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	wrapped := Wrap(ErrInternal, "composing root verse")
	if !Is(wrapped, ErrInternal) {
		t.Error("wrapped error should still match its sentinel")
	}
	if wrapped.Error() != "composing root verse: internal error" {
		t.Errorf("Error() = %q", wrapped.Error())
	}

	formatted := Wrapf(ErrNotFound, "loading %s", "tafsir")
	if !Is(formatted, ErrNotFound) {
		t.Error("Wrapf should preserve the sentinel")
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
}

func TestWrappedTypedErrorKeepsType(t *testing.T) {
	inner := NewNotFound("surah", "115")
	outer := Wrap(inner, "handling request")

	var nf *NotFoundError
	if !As(outer, &nf) {
		t.Fatal("wrapped typed error lost its type")
	}
	if !Is(outer, ErrNotFound) {
		t.Error("wrapped typed error lost its sentinel")
	}
}
