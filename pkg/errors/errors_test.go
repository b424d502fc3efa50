package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeConflict, "test"), ErrCodeConflict},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Code
	}{
		{400, ErrCodeInvalidRequest},
		{401, ErrCodeAuthentication},
		{403, ErrCodePermission},
		{404, ErrCodeNotFound},
		{409, ErrCodeConflict},
		{429, ErrCodeRateLimited},
		{504, ErrCodeTimeout},
		{500, ErrCodeAPI},
		{503, ErrCodeAPI},
		{418, ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		if got := CodeForStatus(tt.status); got != tt.want {
			t.Errorf("CodeForStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestFromStatus(t *testing.T) {
	t.Run("metastore body", func(t *testing.T) {
		body := []byte(`{"errorCode":"ATLAS-404-00-005","errorMessage":"Given instance guid abc is invalid/not found"}`)
		err := FromStatus(404, body)
		if err.Code != ErrCodeNotFound {
			t.Errorf("Code = %v", err.Code)
		}
		if err.ServerCode != "ATLAS-404-00-005" {
			t.Errorf("ServerCode = %q", err.ServerCode)
		}
		if !strings.Contains(err.Message, "not found") {
			t.Errorf("Message = %q", err.Message)
		}
		if err.Status != 404 {
			t.Errorf("Status = %d", err.Status)
		}
	})

	t.Run("heracles body", func(t *testing.T) {
		err := FromStatus(409, []byte(`{"code":1001,"message":"group already exists"}`))
		if err.ServerCode != "1001" {
			t.Errorf("ServerCode = %q", err.ServerCode)
		}
		if err.Message != "group already exists" {
			t.Errorf("Message = %q", err.Message)
		}
	})

	t.Run("with causes", func(t *testing.T) {
		body := []byte(`{"errorCode":"ATLAS-400-00-01A","errorMessage":"invalid parameters","causes":[{"errorMessage":"qualifiedName is required"}]}`)
		err := FromStatus(400, body)
		if err.Message != "invalid parameters: qualifiedName is required" {
			t.Errorf("Message = %q", err.Message)
		}
	})

	t.Run("plain body", func(t *testing.T) {
		err := FromStatus(502, []byte("  bad gateway \n"))
		if err.Message != "bad gateway" {
			t.Errorf("Message = %q", err.Message)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		err := FromStatus(401, nil)
		if err.Message != "Unauthorized" {
			t.Errorf("Message = %q", err.Message)
		}
		if StatusOf(err) != 401 {
			t.Errorf("StatusOf() = %d", StatusOf(err))
		}
	})
}

func TestErrorStringIncludesServerCode(t *testing.T) {
	err := &Error{Code: ErrCodeNotFound, Message: "missing", ServerCode: "ATLAS-404-00-005"}
	want := "NOT_FOUND: missing (ATLAS-404-00-005)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRateLimitedError(t *testing.T) {
	t.Run("with retry after", func(t *testing.T) {
		err := &RateLimitedError{RetryAfter: 60}
		expected := "rate limited: retry after 60 seconds"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without retry after", func(t *testing.T) {
		err := &RateLimitedError{}
		if err.Error() != "rate limited" {
			t.Errorf("Error() = %v", err.Error())
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &RateLimitedError{}
		if err.Code() != ErrCodeRateLimited {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeRateLimited)
		}
	})
}
