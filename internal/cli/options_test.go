package cli

import "testing"

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.SSHPort != 22 || opts.SSHUser != "root" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.Remote() {
		t.Fatal("no host means local run")
	}
}

func TestParseRemoteFlags(t *testing.T) {
	opts, err := Parse([]string{"--host", "203.0.113.9", "--ssh-port", "2222", "--skip-bench"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !opts.Remote() {
		t.Fatal("expected remote run")
	}
	if opts.Host != "203.0.113.9" || opts.SSHPort != 2222 || !opts.SkipBench {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestParseServerProfileIsRemote(t *testing.T) {
	opts, err := Parse([]string{"--server", "prod"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !opts.Remote() {
		t.Fatal("--server must imply a remote run")
	}
}

func TestParseBenchConflict(t *testing.T) {
	if _, err := Parse([]string{"--bench", "--skip-bench"}); err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestParseRejectsPositionalArgs(t *testing.T) {
	if _, err := Parse([]string{"install"}); err == nil {
		t.Fatal("expected error for positional arguments")
	}
}
