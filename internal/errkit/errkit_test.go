package errkit

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewUsesRegistry(t *testing.T) {
	err := New("E101")

	if err.Category != CategoryFetch {
		t.Errorf("Category = %q, want %q", err.Category, CategoryFetch)
	}
	if err.Message != "fetch failed" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")

	if err.Code != "E999" {
		t.Errorf("Code = %q, want E999", err.Code)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %q, want runtime", err.Category)
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := Wrap("E101", fmt.Errorf("connection refused"))

	if !errors.Is(err, ErrFetchFailed) {
		t.Error("errors.Is(err, ErrFetchFailed) = false")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Error("errors.Is matched a different code")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap("E201", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestErrorString(t *testing.T) {
	err := New("E101").WithDetail("GET %s", "https://test.com/resource")

	got := err.Error()
	want := "E101: fetch failed: GET https://test.com/resource"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorsAs(t *testing.T) {
	var target *Error
	err := fmt.Errorf("outer: %w", New("E002"))

	if !errors.As(err, &target) {
		t.Fatal("errors.As failed")
	}
	if target.Code != "E002" {
		t.Errorf("Code = %q, want E002", target.Code)
	}
}
