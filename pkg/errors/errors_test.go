package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedDocument, "missing attribute %q on %s", "id", "element")

	if err.Code != ErrCodeMalformedDocument {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeMalformedDocument)
	}
	if want := `missing attribute "id" on element`; err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
	if !strings.Contains(err.Error(), "MALFORMED_DOCUMENT") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := Wrap(ErrCodeMalformedDocument, cause, "view %s", "id-1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "unexpected EOF") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeUnresolvedReference, "x"), ErrCodeUnresolvedReference, true},
		{"Mismatch", New(ErrCodeUnresolvedReference, "x"), ErrCodeIntegrityViolation, false},
		{"WrappedMatch", fmt.Errorf("ctx: %w", New(ErrCodeMalformedDocument, "x")), ErrCodeMalformedDocument, true},
		{"PlainError", stderrors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeDuplicateForeignID, "x")); got != ErrCodeDuplicateForeignID {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeDuplicateForeignID)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeIntegrityViolation, "dangling source")
	if got := UserMessage(err); got != "dangling source" {
		t.Errorf("UserMessage = %q, want %q", got, "dangling source")
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage = %q, want %q", got, "plain failure")
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "id-4a5b6c", false},
		{"ValidUnderscore", "_internal", false},
		{"Empty", "", true},
		{"Whitespace", "id 1", true},
		{"ControlChar", "id\x001", true},
		{"LeadingDigit", "1id", true},
		{"TooLong", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePropertyKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"Valid", "owner", false},
		{"ValidSpaces", "review date", false},
		{"Empty", "", true},
		{"Equals", "a=b", true},
		{"Pipe", "a|b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePropertyKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePropertyKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}
