//go:build windows

package common

import "testing"

func TestPipePath(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"", `\\.\pipe\autoshot`},
		{"custom", `\\.\pipe\custom`},
		{`\\.\pipe\already-full`, `\\.\pipe\already-full`},
	}
	for _, tt := range tests {
		t.Setenv(PipeNameEnv, tt.env)
		if got := PipePath(); got != tt.want {
			t.Errorf("PipePath() with %q = %q; want %q", tt.env, got, tt.want)
		}
	}
}
