package main

import (
	"errors"
	"testing"

	"openx-hq/openx/pkg/cli"
)

func TestWatchFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no error", nil, false},
		{"validation failure waits for next save", cli.Exitf(cli.ExitValidationFailed, "2 errors"), false},
		{"load failure aborts", cli.Exitf(cli.ExitLoadFailed, "no such file"), true},
		{"command error aborts", cli.NewCommandError("validate", errors.New("history database locked")), true},
		{"plain error aborts", errors.New("broken pipe"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := watchFatal(tt.err); got != tt.want {
				t.Errorf("watchFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
