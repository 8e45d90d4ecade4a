package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/console"
	"github.com/claude/forgeplan/internal/wizard"
	"github.com/spf13/cobra"
)

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("api", "", "")
	cmd.Flags().String("cache-dir", "", "")
	return cmd
}

// TestResolveAPI verifies flag, env and default precedence.
func TestResolveAPI(t *testing.T) {
	cmd := testCommand()
	t.Setenv("FORGEPLAN_API_URL", "")
	if got := resolveAPI(cmd); got != defaultAPI {
		t.Errorf("default = %q", got)
	}

	t.Setenv("FORGEPLAN_API_URL", "http://plans.internal/")
	if got := resolveAPI(cmd); got != "http://plans.internal" {
		t.Errorf("env = %q", got)
	}

	_ = cmd.Flags().Set("api", "http://flag:9000")
	if got := resolveAPI(cmd); got != "http://flag:9000" {
		t.Errorf("flag = %q", got)
	}
}

func TestResolveCacheDir(t *testing.T) {
	cmd := testCommand()
	t.Setenv("FORGEPLAN_CACHE_DIR", "")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if got, _ := resolveCacheDir(cmd); got != filepath.Join("/tmp/xdg", "forgeplan") {
		t.Errorf("xdg = %q", got)
	}

	t.Setenv("FORGEPLAN_CACHE_DIR", "/var/cache/fp")
	if got, _ := resolveCacheDir(cmd); got != "/var/cache/fp" {
		t.Errorf("env = %q", got)
	}
}

// TestRetryable verifies which failures offer a retry.
func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("submitting wizard: %w", apierr.New(apierr.NetworkError, "down")), true},
		{apierr.New(apierr.RateLimited, "slow down"), true},
		{apierr.New(apierr.IncompleteData, "missing"), false},
		{&wizard.ValidationError{Step: 2}, false},
		{console.ErrQuit, false},
		{errors.New("plain"), true},
	}
	for _, c := range cases {
		if got := retryable(c.err); got != c.want {
			t.Errorf("retryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
