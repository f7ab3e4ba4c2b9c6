package main

import (
	"os"
	"testing"

	"github.com/altekin/boxup/internal/cli"
)

func TestRunUnknownFlagIsUsageError(t *testing.T) {
	t.Setenv("BOXUP_SERVERS_DIR", t.TempDir())
	if code := run([]string{"--bogus"}); code != cli.ExitUsage {
		t.Fatalf("expected exit %d, got %d", cli.ExitUsage, code)
	}
}

func TestRunVersionExitsClean(t *testing.T) {
	if code := run([]string{"--version"}); code != cli.ExitSuccess {
		t.Fatalf("expected exit %d, got %d", cli.ExitSuccess, code)
	}
}

func TestRunWithoutRootFails(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("test requires a non-root user")
	}
	dir := t.TempDir()
	t.Setenv("BOXUP_SERVERS_DIR", dir)

	if code := run([]string{"--skip-bench", "--no-color"}); code != cli.ExitFailure {
		t.Fatalf("expected exit %d, got %d", cli.ExitFailure, code)
	}
	// the guard fires before any provisioning side effects
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("unexpected files written: %v", entries)
	}
}

func TestRunListServersEmpty(t *testing.T) {
	t.Setenv("BOXUP_SERVERS_DIR", t.TempDir())
	if code := run([]string{"--list-servers"}); code != cli.ExitSuccess {
		t.Fatalf("expected exit %d, got %d", cli.ExitSuccess, code)
	}
}
