package util

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderError(t *testing.T) {
	err := &RenderError{Template: "show vlan {id}", Placeholder: "id", Reason: "unfilled"}
	if !errors.Is(err, ErrRenderFailed) {
		t.Error("RenderError does not unwrap to ErrRenderFailed")
	}
	if !strings.Contains(err.Error(), "{id}") {
		t.Errorf("Error() = %q, does not name the placeholder", err.Error())
	}
}

func TestValidationBuilder(t *testing.T) {
	var v ValidationBuilder
	if v.HasErrors() {
		t.Error("fresh builder reports errors")
	}
	if v.Build() != nil {
		t.Error("fresh builder builds a non-nil error")
	}

	v.Add(true, "should not appear")
	v.Add(false, "first")
	v.AddErrorf("second: %d", 2)

	err := v.Build()
	if err == nil {
		t.Fatal("Build() = nil with errors accumulated")
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Error("built error does not unwrap to ErrValidationFailed")
	}
	msg := err.Error()
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second: 2") {
		t.Errorf("Error() = %q", msg)
	}
	if strings.Contains(msg, "should not appear") {
		t.Errorf("Add(true, ...) recorded a message: %q", msg)
	}
}

func TestValidationErrorSingleMessage(t *testing.T) {
	err := NewValidationError("only one")
	if got := err.Error(); got != "validation failed: only one" {
		t.Errorf("Error() = %q", got)
	}
}
