package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOfWrappedError(t *testing.T) {
	base := WriteFailure("relational.insert", errors.New("boom"), "insert into %s", "client")
	wrapped := fmt.Errorf("generate: %w", base)

	if got := CodeOf(wrapped); got != CodeWriteFailure {
		t.Errorf("Expected %s, got %s", CodeWriteFailure, got)
	}
	if !Is(wrapped, CodeWriteFailure) {
		t.Error("Expected Is to match the wrapped code")
	}
}

func TestCodeOfJoinedError(t *testing.T) {
	joined := errors.Join(errors.New("plain"), ParseFailure("fetch", nil, "bad date"))

	if got := CodeOf(joined); got != CodeParseFailure {
		t.Errorf("Expected %s, got %s", CodeParseFailure, got)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Errorf("Expected unknown code, got %s", got)
	}
	if Is(nil, CodeUnknown) {
		t.Error("nil must not match any code")
	}
}

func TestErrorMessage(t *testing.T) {
	err := InvalidArgument("dispatch.generate", "unsupported db_type %q", "oracle")
	want := `dispatch.generate: invalid_argument: unsupported db_type "oracle"`
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	cause := errors.New("dial tcp: refused")
	err = BackendUnavailable("", cause, "connect")
	if err.Error() != "backend_unavailable: connect: dial tcp: refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected cause to be reachable through Unwrap")
	}
}
