package main

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestPromptNewPassword_Piped(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hunter22\n", "hunter22"},
		{"hunter22\r\n", "hunter22"},
		{"no-newline", "no-newline"},
	}

	for _, tt := range tests {
		got, err := promptNewPassword(bufio.NewReader(strings.NewReader(tt.in)), io.Discard, false)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestPromptNewPassword_EmptyInput(t *testing.T) {
	if _, err := promptNewPassword(bufio.NewReader(strings.NewReader("")), io.Discard, false); err == nil {
		t.Error("expected error for empty stdin")
	}
}
