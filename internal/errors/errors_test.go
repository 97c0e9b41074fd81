package errors

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("load scenario: %w", errors.New("file not found")),
			expected: "Error: load scenario: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("unknown solver %q", "simplex")
	if got != `Error: unknown solver "simplex"` {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"usage", Usage(errors.New("bad flag")), ExitInvalidUse},
		{"wrapped usage", fmt.Errorf("parse: %w", Usage(errors.New("bad flag"))), ExitInvalidUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	code := Report(&buf, errors.New("no staff"))
	if code != ExitFailure {
		t.Errorf("Report() code = %d, want %d", code, ExitFailure)
	}
	if buf.String() != "Error: no staff\n" {
		t.Errorf("Report() output = %q", buf.String())
	}

	buf.Reset()
	if code := Report(&buf, nil); code != ExitOK || buf.Len() != 0 {
		t.Errorf("Report(nil) = %d, %q", code, buf.String())
	}
}

func TestUsageNil(t *testing.T) {
	if Usage(nil) != nil {
		t.Error("Usage(nil) should be nil")
	}
}
