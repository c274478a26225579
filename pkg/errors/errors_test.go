package errors

import (
	"fmt"
	"os"
	"testing"
)

func TestWrapPreservesType(t *testing.T) {
	base := New(ErrorTypeNotFound, "input file not found")
	wrapped := Wrap(base, ErrorTypeInternal, "optimization failed")

	if !IsType(wrapped, ErrorTypeInternal) {
		t.Errorf("expected wrapped error to be %s", ErrorTypeInternal)
	}

	// The original error is still reachable through the chain
	inner, ok := wrapped.Cause.(*Error)
	if !ok || inner.Type != ErrorTypeNotFound {
		t.Errorf("expected cause to be %s, got %v", ErrorTypeNotFound, wrapped.Cause)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, ErrorTypeFile, "should be nil"); err != nil {
		t.Errorf("wrapping nil should return nil, got %v", err)
	}
}

func TestWrapStdlibError(t *testing.T) {
	_, statErr := os.Stat("/nonexistent/path/for/test")
	err := Wrap(statErr, ErrorTypeFile, "failed to stat input")

	if !IsType(err, ErrorTypeFile) {
		t.Errorf("expected %s error", ErrorTypeFile)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack capture on wrap of external error")
	}
}

func TestIsTypeOnForeignError(t *testing.T) {
	if IsType(fmt.Errorf("plain error"), ErrorTypeData) {
		t.Error("plain errors should not match any type")
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeData, "bad row").WithDetail("row", 17)
	if err.Details["row"] != 17 {
		t.Errorf("expected detail row=17, got %v", err.Details["row"])
	}
}
