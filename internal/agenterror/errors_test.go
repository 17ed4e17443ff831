package agenterror

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Setting: "llm.provider", Reason: "unsupported provider 'claude'"}
	if !strings.Contains(err.Error(), "llm.provider") {
		t.Errorf("expected setting in message, got: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "unsupported provider") {
		t.Errorf("expected reason in message, got: %s", err.Error())
	}
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &GenerationError{Provider: "groq", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected GenerationError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "groq") {
		t.Errorf("expected provider in message, got: %s", err.Error())
	}
}

func TestVerificationErrorUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := &VerificationError{Stage: "write parser file", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected VerificationError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "write parser file") {
		t.Errorf("expected stage in message, got: %s", err.Error())
	}
}
