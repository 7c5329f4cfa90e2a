package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *AgentError
		want string
	}{
		{
			name: "without cause",
			err:  New(CodeNotRunning, "agent is not running", nil),
			want: "[NOT_RUNNING] agent is not running",
		},
		{
			name: "with cause",
			err:  New(CodeHook, "execute hook failed", fmt.Errorf("dial tcp: refused")),
			want: "[HOOK_ERROR] execute hook failed: dial tcp: refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := New(CodeInternal, "wrapped", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	var ae *AgentError
	if !stderrors.As(fmt.Errorf("outer: %w", err), &ae) {
		t.Fatal("expected errors.As to find AgentError through a wrap")
	}
	if ae.Code != CodeInternal {
		t.Errorf("got code %s", ae.Code)
	}
}

func TestChaining(t *testing.T) {
	err := New(CodeValidation, "field out of range", nil).
		WithContext("field", "amount").
		WithAttribute("agent.id", "a-1").
		WithRecoverable(true)

	if err.Context["field"] != "amount" {
		t.Errorf("context not set: %v", err.Context)
	}
	if err.Attributes["agent.id"] != "a-1" {
		t.Errorf("attribute not set: %v", err.Attributes)
	}
	if !err.Recoverable {
		t.Error("expected recoverable")
	}
}

func TestChainingOnZeroValue(t *testing.T) {
	var err AgentError
	err.WithContext("k", 1).WithAttribute("a", "b")
	if err.Context["k"] != 1 || err.Attributes["a"] != "b" {
		t.Error("chaining must lazily allocate the maps")
	}
}

func TestHasCode(t *testing.T) {
	inner := New(CodeValidation, "bad field", nil)
	outer := fmt.Errorf("task failed: %w", New(CodeHook, "hook blew up", inner))

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct", inner, CodeValidation, true},
		{"through chain", outer, CodeValidation, true},
		{"outer code", outer, CodeHook, true},
		{"absent code", outer, CodeTimeout, false},
		{"nil error", nil, CodeInternal, false},
		{"plain error", fmt.Errorf("plain"), CodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsAgentError(t *testing.T) {
	if AsAgentError(nil) != nil {
		t.Error("nil must stay nil")
	}

	ae := New(CodeTimeout, "deadline", nil)
	if got := AsAgentError(ae); got != ae {
		t.Error("an AgentError must pass through unchanged")
	}

	plain := fmt.Errorf("plain failure")
	wrapped := AsAgentError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("got code %s, want %s", wrapped.Code, CodeInternal)
	}
	if !stderrors.Is(wrapped, plain) {
		t.Error("the original error must stay reachable")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New(CodeManifest, "missing field", fmt.Errorf("id")).WithRecoverable(false)
	data, merr := err.MarshalJSON()
	if merr != nil {
		t.Fatal(merr)
	}
	s := string(data)
	for _, want := range []string{`"code":"MANIFEST_ERROR"`, `"recoverable":false`, "missing field"} {
		if !strings.Contains(s, want) {
			t.Errorf("marshaled form %s missing %s", s, want)
		}
	}
}
